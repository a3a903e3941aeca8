package services

import (
	"crypto/cipher"
	"encoding/json"
	"sort"

	"chatbot-admin/internal/crypto"
	"chatbot-admin/internal/models"
	integration_models "chatbot-admin/internal/models/integrations"
)

var emptyObject = json.RawMessage(`{}`)

func objectOrEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return emptyObject
	}
	return raw
}

func stringsOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func mapUserToResponse(u *models.User) models.UserResponse {
	return models.UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
	}
}

// mapChatbotConfigToResponse converts a DB config to its API shape without children.
func mapChatbotConfigToResponse(c models.ChatbotConfig) models.ChatbotConfigResponse {
	return models.ChatbotConfigResponse{
		ID:                c.ID,
		Name:              c.Name,
		Description:       c.Description,
		AvatarURL:         c.AvatarURL,
		GreetingMessage:   c.GreetingMessage,
		FallbackMessage:   c.FallbackMessage,
		PersonalityTraits: stringsOrEmpty(c.PersonalityTraits),
		Status:            c.Status,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func mapDocumentToResponse(d models.KnowledgeBaseDocument) models.DocumentResponse {
	return models.DocumentResponse{
		ID:              d.ID,
		ChatbotConfigID: d.ChatbotConfigID,
		Title:           d.Title,
		Filename:        d.Filename,
		FileType:        d.FileType,
		FileSize:        d.FileSize,
		Content:         d.Content,
		Metadata:        d.Metadata,
		Status:          d.Status,
		ErrorMessage:    d.ErrorMessage,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func mapDocumentsToResponse(docs []models.KnowledgeBaseDocument) []models.DocumentResponse {
	resp := make([]models.DocumentResponse, len(docs))
	for i, d := range docs {
		resp[i] = mapDocumentToResponse(d)
	}
	return resp
}

func mapToolToResponse(t models.ChatbotTool) models.ToolResponse {
	return models.ToolResponse{
		ID:             t.ID,
		Name:           t.Name,
		DisplayName:    t.DisplayName,
		Description:    t.Description,
		Icon:           t.Icon,
		Category:       t.Category,
		RequiredConfig: stringsOrEmpty(t.RequiredConfig),
		OptionalConfig: stringsOrEmpty(t.OptionalConfig),
		IsAvailable:    t.IsAvailable,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func mapToolConfigToResponse(tc models.ChatbotToolConfig, tool *models.ChatbotTool) models.ToolConfigResponse {
	resp := models.ToolConfigResponse{
		ID:              tc.ID,
		ChatbotConfigID: tc.ChatbotConfigID,
		ChatbotToolID:   tc.ChatbotToolID,
		IsEnabled:       tc.IsEnabled,
		Configuration:   objectOrEmpty(tc.Configuration),
		CreatedAt:       tc.CreatedAt,
		UpdatedAt:       tc.UpdatedAt,
	}
	if tool != nil {
		t := mapToolToResponse(*tool)
		resp.Tool = &t
	}
	return resp
}

// mapIntegrationToResponse never exposes credential values, only their key names.
func mapIntegrationToResponse(aead cipher.AEAD, i models.IntegrationSetting) models.IntegrationSettingResponse {
	return models.IntegrationSettingResponse{
		ID:              i.ID,
		ChatbotConfigID: i.ChatbotConfigID,
		ServiceName:     i.ServiceName,
		DisplayName:     i.DisplayName,
		IsEnabled:       i.IsEnabled,
		CredentialKeys:  credentialKeys(aead, i.EncryptedCredentials),
		Settings:        objectOrEmpty(i.Settings),
		LastSyncAt:      i.LastSyncAt,
		Status:          i.Status,
		ErrorMessage:    i.ErrorMessage,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

func mapIntegrationsToResponse(aead cipher.AEAD, settings []models.IntegrationSetting) []models.IntegrationSettingResponse {
	resp := make([]models.IntegrationSettingResponse, len(settings))
	for i, s := range settings {
		resp[i] = mapIntegrationToResponse(aead, s)
	}
	return resp
}

// credentialKeys returns the sorted key names of a sealed credential map.
// Unreadable envelopes yield an empty list.
func credentialKeys(aead cipher.AEAD, sealed []byte) []string {
	keys := []string{}
	if len(sealed) == 0 || aead == nil {
		return keys
	}
	var creds integration_models.DecryptedCredentials
	if err := crypto.OpenJSON(aead, sealed, &creds); err != nil {
		return keys
	}
	for k := range creds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
