package services

import "errors"

// Custom errors shared by the services. Handlers map them to status codes with errors.Is.
var (
	ErrChatbotNotFound     = errors.New("chatbot configuration not found")
	ErrDocumentNotFound    = errors.New("knowledge base document not found")
	ErrIntegrationNotFound = errors.New("integration setting not found")
	ErrUserNotFound        = errors.New("user not found")

	ErrUserAlreadyExists        = errors.New("user with this email already exists")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrInvalidVerificationToken = errors.New("invalid or expired verification token")
	ErrHashingPassword          = errors.New("failed to hash password")
	ErrCreatingToken            = errors.New("failed to create token")

	ErrCredentialEncryption = errors.New("credential encryption failed")
	ErrQueueDisabled        = errors.New("extraction queue is not configured")
)
