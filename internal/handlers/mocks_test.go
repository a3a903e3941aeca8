package handlers_test

import (
	"context"

	"chatbot-admin/internal/models"
	"chatbot-admin/internal/services"
)

type mockAuthService struct {
	signupFn      func(ctx context.Context, req models.SignupRequest) (*models.SignupResponse, string, error)
	loginFn       func(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	verifyEmailFn func(ctx context.Context, token string) (*models.UserResponse, error)
}

func (m *mockAuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.SignupResponse, string, error) {
	if m.signupFn != nil {
		return m.signupFn(ctx, req)
	}
	return nil, "", nil
}

func (m *mockAuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, req)
	}
	return nil, nil
}

func (m *mockAuthService) VerifyEmail(ctx context.Context, token string) (*models.UserResponse, error) {
	if m.verifyEmailFn != nil {
		return m.verifyEmailFn(ctx, token)
	}
	return nil, nil
}

type mockChatbotService struct {
	listFn   func(ctx context.Context) ([]models.ChatbotConfigResponse, error)
	createFn func(ctx context.Context, req models.ChatbotConfigRequest) (*models.ChatbotConfigResponse, error)
	getFn    func(ctx context.Context, configID int64) (*models.ChatbotConfigDetailResponse, error)
	updateFn func(ctx context.Context, configID int64, req models.ChatbotConfigRequest) (*models.ChatbotConfigResponse, error)
	deleteFn func(ctx context.Context, configID int64) error
}

func (m *mockChatbotService) ListChatbotConfigs(ctx context.Context) ([]models.ChatbotConfigResponse, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []models.ChatbotConfigResponse{}, nil
}

func (m *mockChatbotService) CreateChatbotConfig(ctx context.Context, req models.ChatbotConfigRequest) (*models.ChatbotConfigResponse, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return nil, nil
}

func (m *mockChatbotService) GetChatbotConfig(ctx context.Context, configID int64) (*models.ChatbotConfigDetailResponse, error) {
	if m.getFn != nil {
		return m.getFn(ctx, configID)
	}
	return nil, nil
}

func (m *mockChatbotService) UpdateChatbotConfig(ctx context.Context, configID int64, req models.ChatbotConfigRequest) (*models.ChatbotConfigResponse, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, configID, req)
	}
	return nil, nil
}

func (m *mockChatbotService) DeleteChatbotConfig(ctx context.Context, configID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, configID)
	}
	return nil
}

type mockDocumentService struct {
	listFn   func(ctx context.Context, configID int64) (*models.DocumentListResponse, error)
	uploadFn func(ctx context.Context, in services.UploadDocumentInput) (*models.DocumentListResponse, error)
	deleteFn func(ctx context.Context, documentID int64) (*models.DocumentListResponse, error)
}

func (m *mockDocumentService) ListDocuments(ctx context.Context, configID int64) (*models.DocumentListResponse, error) {
	if m.listFn != nil {
		return m.listFn(ctx, configID)
	}
	return nil, nil
}

func (m *mockDocumentService) UploadDocument(ctx context.Context, in services.UploadDocumentInput) (*models.DocumentListResponse, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, in)
	}
	return nil, nil
}

func (m *mockDocumentService) DeleteDocument(ctx context.Context, documentID int64) (*models.DocumentListResponse, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, documentID)
	}
	return nil, nil
}

type mockToolService struct {
	listFn   func(ctx context.Context, configID int64) (*models.ToolListResponse, error)
	toggleFn func(ctx context.Context, req models.ToggleToolRequest) (*models.ToolListResponse, error)
}

func (m *mockToolService) ListToolsForConfig(ctx context.Context, configID int64) (*models.ToolListResponse, error) {
	if m.listFn != nil {
		return m.listFn(ctx, configID)
	}
	return nil, nil
}

func (m *mockToolService) ToggleTool(ctx context.Context, req models.ToggleToolRequest) (*models.ToolListResponse, error) {
	if m.toggleFn != nil {
		return m.toggleFn(ctx, req)
	}
	return nil, nil
}

type mockIntegrationService struct {
	listFn   func(ctx context.Context, configID int64) (*models.IntegrationListResponse, error)
	saveFn   func(ctx context.Context, req models.SaveIntegrationRequest) (*models.IntegrationListResponse, error)
	actionFn func(ctx context.Context, integrationID int64, req models.IntegrationActionRequest) (*models.IntegrationListResponse, error)
}

func (m *mockIntegrationService) ListIntegrations(ctx context.Context, configID int64) (*models.IntegrationListResponse, error) {
	if m.listFn != nil {
		return m.listFn(ctx, configID)
	}
	return nil, nil
}

func (m *mockIntegrationService) SaveIntegration(ctx context.Context, req models.SaveIntegrationRequest) (*models.IntegrationListResponse, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, req)
	}
	return nil, nil
}

func (m *mockIntegrationService) RunAction(ctx context.Context, integrationID int64, req models.IntegrationActionRequest) (*models.IntegrationListResponse, error) {
	if m.actionFn != nil {
		return m.actionFn(ctx, integrationID, req)
	}
	return nil, nil
}

type mockDashboardService struct {
	getFn func(ctx context.Context) (*models.DashboardResponse, error)
}

func (m *mockDashboardService) GetDashboard(ctx context.Context) (*models.DashboardResponse, error) {
	if m.getFn != nil {
		return m.getFn(ctx)
	}
	return &models.DashboardResponse{}, nil
}
