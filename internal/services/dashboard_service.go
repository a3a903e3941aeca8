package services

import (
	"context"
	"fmt"

	"chatbot-admin/internal/models"
	"chatbot-admin/internal/store"
)

const dashboardRecentLimit = 5

// DashboardService builds the read-only dashboard rollup.
type DashboardService struct {
	store store.Store
}

func NewDashboardService(s store.Store) *DashboardService {
	return &DashboardService{store: s}
}

func (s *DashboardService) GetDashboard(ctx context.Context) (*models.DashboardResponse, error) {
	counts, err := s.store.GetDashboardCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard counts: %w", err)
	}
	chatbots, err := s.store.ListRecentChatbots(ctx, dashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent chatbots: %w", err)
	}
	docs, err := s.store.ListRecentDocuments(ctx, dashboardRecentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent documents: %w", err)
	}

	resp := &models.DashboardResponse{
		Stats: models.DashboardStats{
			TotalChatbots:         counts.TotalChatbots,
			ActiveChatbots:        counts.ActiveChatbots,
			TotalDocuments:        counts.TotalDocuments,
			ReadyDocuments:        counts.ReadyDocuments,
			AvailableTools:        counts.AvailableTools,
			ConnectedIntegrations: counts.ConnectedIntegrations,
		},
		RecentChatbots:  make([]models.RecentChatbotResponse, len(chatbots)),
		RecentDocuments: make([]models.RecentDocumentResponse, len(docs)),
	}
	for i, c := range chatbots {
		resp.RecentChatbots[i] = models.RecentChatbotResponse{
			ChatbotConfigResponse: mapChatbotConfigToResponse(c.ChatbotConfig),
			DocumentCount:         c.DocumentCount,
			IntegrationCount:      c.IntegrationCount,
		}
	}
	for i, d := range docs {
		resp.RecentDocuments[i] = models.RecentDocumentResponse{
			DocumentResponse: mapDocumentToResponse(d.KnowledgeBaseDocument),
			ChatbotName:      d.ChatbotName,
		}
	}
	return resp, nil
}
