package services

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"sync"
	"time"

	"chatbot-admin/internal/models"
	"chatbot-admin/internal/store"
)

// fakeStore is an in-memory store.Store with the same keying and cascade rules as postgres.
type fakeStore struct {
	mu sync.Mutex

	users        map[int64]*models.User
	configs      map[int64]*models.ChatbotConfig
	documents    map[int64]*models.KnowledgeBaseDocument
	tools        map[int64]*models.ChatbotTool
	toolConfigs  map[int64]*models.ChatbotToolConfig
	integrations map[int64]*models.IntegrationSetting

	clock time.Time
	// failCreateDocument makes CreateDocument return this error.
	failCreateDocument error

	// failUpsertToolConfig makes UpsertToolConfig return this error.
	failUpsertToolConfig error
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[int64]*models.User{},
		configs:      map[int64]*models.ChatbotConfig{},
		documents:    map[int64]*models.KnowledgeBaseDocument{},
		tools:        map[int64]*models.ChatbotTool{},
		toolConfigs:  map[int64]*models.ChatbotToolConfig{},
		integrations: map[int64]*models.IntegrationSetting{},
		clock:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so latest-first ordering is deterministic.
func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) CreateUser(_ context.Context, arg store.CreateUserParams) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == arg.Email {
			return nil, store.ErrConflict
		}
	}
	now := f.tick()
	u := &models.User{ID: arg.ID, Email: arg.Email, HashedPassword: arg.HashedPassword, CreatedAt: now, UpdatedAt: now}
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) MarkUserVerified(_ context.Context, id int64, at time.Time) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.EmailVerifiedAt = &at
	cp := *u
	return &cp, nil
}

func (f *fakeStore) CreateChatbotConfig(_ context.Context, arg store.ChatbotConfigParams, defaults []store.DefaultIntegrationParams) (*models.ChatbotConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.tick()
	traits := arg.PersonalityTraits
	if traits == nil {
		traits = []string{}
	}
	c := &models.ChatbotConfig{
		ID:                arg.ID,
		Name:              *arg.Name,
		Description:       arg.Description,
		AvatarURL:         arg.AvatarURL,
		GreetingMessage:   arg.GreetingMessage,
		FallbackMessage:   arg.FallbackMessage,
		PersonalityTraits: traits,
		Status:            *arg.Status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	f.configs[c.ID] = c
	for _, d := range defaults {
		f.integrations[d.ID] = &models.IntegrationSetting{
			ID:              d.ID,
			ChatbotConfigID: c.ID,
			ServiceName:     d.ServiceName,
			DisplayName:     d.DisplayName,
			Settings:        json.RawMessage(`{}`),
			Status:          models.IntegrationStatusDisconnected,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) GetChatbotConfig(_ context.Context, id int64) (*models.ChatbotConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.configs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) ListChatbotConfigs(_ context.Context) ([]models.ChatbotConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ChatbotConfig, 0, len(f.configs))
	for _, c := range f.configs {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func optional(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}

func (f *fakeStore) UpdateChatbotConfig(_ context.Context, arg store.ChatbotConfigParams) (*models.ChatbotConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.configs[arg.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if arg.Name != nil {
		c.Name = *arg.Name
	}
	if arg.Description != nil {
		c.Description = optional(arg.Description)
	}
	if arg.AvatarURL != nil {
		c.AvatarURL = optional(arg.AvatarURL)
	}
	if arg.GreetingMessage != nil {
		c.GreetingMessage = optional(arg.GreetingMessage)
	}
	if arg.FallbackMessage != nil {
		c.FallbackMessage = optional(arg.FallbackMessage)
	}
	if arg.PersonalityTraits != nil {
		c.PersonalityTraits = arg.PersonalityTraits
	}
	if arg.Status != nil {
		c.Status = *arg.Status
	}
	c.UpdatedAt = f.tick()
	cp := *c
	return &cp, nil
}

func (f *fakeStore) DeleteChatbotConfig(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.configs[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.configs, id)
	for k, d := range f.documents {
		if d.ChatbotConfigID == id {
			delete(f.documents, k)
		}
	}
	for k, tc := range f.toolConfigs {
		if tc.ChatbotConfigID == id {
			delete(f.toolConfigs, k)
		}
	}
	for k, i := range f.integrations {
		if i.ChatbotConfigID == id {
			delete(f.integrations, k)
		}
	}
	return nil
}

func (f *fakeStore) CreateDocument(_ context.Context, arg store.CreateDocumentParams) (*models.KnowledgeBaseDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateDocument != nil {
		return nil, f.failCreateDocument
	}
	if _, ok := f.configs[arg.ChatbotConfigID]; !ok {
		return nil, store.ErrForeignKey
	}
	now := f.tick()
	d := &models.KnowledgeBaseDocument{
		ID:              arg.ID,
		ChatbotConfigID: arg.ChatbotConfigID,
		Title:           arg.Title,
		Filename:        arg.Filename,
		FilePath:        arg.FilePath,
		FileType:        arg.FileType,
		FileSize:        arg.FileSize,
		Content:         arg.Content,
		Metadata:        arg.Metadata,
		Status:          arg.Status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.documents[d.ID] = d
	cp := *d
	return &cp, nil
}

func (f *fakeStore) GetDocument(_ context.Context, id int64) (*models.KnowledgeBaseDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.documents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeStore) ListDocumentsByConfig(_ context.Context, configIDs ...int64) ([]models.KnowledgeBaseDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range configIDs {
		want[id] = true
	}
	out := []models.KnowledgeBaseDocument{}
	for _, d := range f.documents {
		if want[d.ChatbotConfigID] {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) ListDocumentsByStatus(_ context.Context, status models.DocumentStatus, limit int) ([]models.KnowledgeBaseDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.KnowledgeBaseDocument{}
	for _, d := range f.documents {
		if d.Status == status {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) CompleteDocument(_ context.Context, arg store.CompleteDocumentParams) (*models.KnowledgeBaseDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.documents[arg.ID]
	if !ok || d.Status != models.DocumentStatusProcessing {
		return nil, store.ErrNotFound
	}
	d.Status = arg.Status
	d.Content = arg.Content
	d.ErrorMessage = arg.ErrorMessage
	d.UpdatedAt = f.tick()
	cp := *d
	return &cp, nil
}

func (f *fakeStore) DeleteDocument(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.documents[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.documents, id)
	return nil
}

func (f *fakeStore) UpsertTool(_ context.Context, arg store.UpsertToolParams) (*models.ChatbotTool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.tick()
	for _, t := range f.tools {
		if t.Name == arg.Name {
			t.DisplayName = arg.DisplayName
			t.Category = arg.Category
			t.IsAvailable = arg.IsAvailable
			t.UpdatedAt = now
			cp := *t
			return &cp, nil
		}
	}
	desc, icon := arg.Description, arg.Icon
	t := &models.ChatbotTool{
		ID:             arg.ID,
		Name:           arg.Name,
		DisplayName:    arg.DisplayName,
		Description:    &desc,
		Icon:           &icon,
		Category:       arg.Category,
		RequiredConfig: arg.RequiredConfig,
		OptionalConfig: arg.OptionalConfig,
		IsAvailable:    arg.IsAvailable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.tools[t.ID] = t
	cp := *t
	return &cp, nil
}

func (f *fakeStore) GetTool(_ context.Context, id int64) (*models.ChatbotTool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tools[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) ListTools(_ context.Context, onlyAvailable bool) ([]models.ChatbotTool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ChatbotTool{}
	for _, t := range f.tools {
		if onlyAvailable && !t.IsAvailable {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	return out, nil
}

func (f *fakeStore) UpsertToolConfig(_ context.Context, arg store.UpsertToolConfigParams) (*models.ChatbotToolConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsertToolConfig != nil {
		return nil, f.failUpsertToolConfig
	}
	if _, ok := f.configs[arg.ChatbotConfigID]; !ok {
		return nil, store.ErrForeignKey
	}
	if _, ok := f.tools[arg.ChatbotToolID]; !ok {
		return nil, store.ErrForeignKey
	}
	now := f.tick()
	for _, tc := range f.toolConfigs {
		if tc.ChatbotConfigID == arg.ChatbotConfigID && tc.ChatbotToolID == arg.ChatbotToolID {
			tc.IsEnabled = arg.IsEnabled
			tc.Configuration = arg.Configuration
			tc.UpdatedAt = now
			cp := *tc
			return &cp, nil
		}
	}
	tc := &models.ChatbotToolConfig{
		ID:              arg.ID,
		ChatbotConfigID: arg.ChatbotConfigID,
		ChatbotToolID:   arg.ChatbotToolID,
		IsEnabled:       arg.IsEnabled,
		Configuration:   arg.Configuration,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.toolConfigs[tc.ID] = tc
	cp := *tc
	return &cp, nil
}

func (f *fakeStore) ListToolConfigsByConfig(_ context.Context, configIDs ...int64) ([]models.ChatbotToolConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range configIDs {
		want[id] = true
	}
	out := []models.ChatbotToolConfig{}
	for _, tc := range f.toolConfigs {
		if want[tc.ChatbotConfigID] {
			out = append(out, *tc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) UpsertIntegration(_ context.Context, arg store.UpsertIntegrationParams) (*models.IntegrationSetting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.configs[arg.ChatbotConfigID]; !ok {
		return nil, store.ErrForeignKey
	}
	now := f.tick()
	for _, i := range f.integrations {
		if i.ChatbotConfigID == arg.ChatbotConfigID && i.ServiceName == arg.ServiceName {
			i.DisplayName = arg.DisplayName
			i.IsEnabled = arg.IsEnabled
			i.EncryptedCredentials = arg.EncryptedCredentials
			i.Settings = arg.Settings
			i.Status = arg.Status
			i.UpdatedAt = now
			cp := *i
			return &cp, nil
		}
	}
	i := &models.IntegrationSetting{
		ID:                   arg.ID,
		ChatbotConfigID:      arg.ChatbotConfigID,
		ServiceName:          arg.ServiceName,
		DisplayName:          arg.DisplayName,
		IsEnabled:            arg.IsEnabled,
		EncryptedCredentials: arg.EncryptedCredentials,
		Settings:             arg.Settings,
		Status:               arg.Status,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	f.integrations[i.ID] = i
	cp := *i
	return &cp, nil
}

func (f *fakeStore) GetIntegration(_ context.Context, id int64) (*models.IntegrationSetting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.integrations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *i
	return &cp, nil
}

func (f *fakeStore) ListIntegrationsByConfig(_ context.Context, configIDs ...int64) ([]models.IntegrationSetting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range configIDs {
		want[id] = true
	}
	out := []models.IntegrationSetting{}
	for _, i := range f.integrations {
		if want[i.ChatbotConfigID] {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return out[a].ID > out[b].ID
	})
	return out, nil
}

func (f *fakeStore) UpdateIntegrationState(_ context.Context, arg store.UpdateIntegrationStateParams) (*models.IntegrationSetting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.integrations[arg.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if arg.IsEnabled != nil {
		i.IsEnabled = *arg.IsEnabled
	}
	i.Status = arg.Status
	i.ErrorMessage = arg.ErrorMessage
	i.LastSyncAt = arg.LastSyncAt
	i.UpdatedAt = f.tick()
	cp := *i
	return &cp, nil
}

func (f *fakeStore) GetDashboardCounts(_ context.Context) (*models.DashboardCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &models.DashboardCounts{TotalChatbots: int64(len(f.configs)), TotalDocuments: int64(len(f.documents))}
	for _, cfg := range f.configs {
		if cfg.Status == models.ChatbotStatusActive {
			c.ActiveChatbots++
		}
	}
	for _, d := range f.documents {
		if d.Status == models.DocumentStatusReady {
			c.ReadyDocuments++
		}
	}
	for _, t := range f.tools {
		if t.IsAvailable {
			c.AvailableTools++
		}
	}
	for _, i := range f.integrations {
		if i.Status == models.IntegrationStatusConnected {
			c.ConnectedIntegrations++
		}
	}
	return c, nil
}

func (f *fakeStore) ListRecentChatbots(ctx context.Context, limit int) ([]models.RecentChatbot, error) {
	configs, _ := f.ListChatbotConfigs(ctx)
	if len(configs) > limit {
		configs = configs[:limit]
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.RecentChatbot, len(configs))
	for i, c := range configs {
		out[i].ChatbotConfig = c
		for _, d := range f.documents {
			if d.ChatbotConfigID == c.ID {
				out[i].DocumentCount++
			}
		}
		for _, s := range f.integrations {
			if s.ChatbotConfigID == c.ID {
				out[i].IntegrationCount++
			}
		}
	}
	return out, nil
}

func (f *fakeStore) ListRecentDocuments(_ context.Context, limit int) ([]models.RecentDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	docs := make([]models.KnowledgeBaseDocument, 0, len(f.documents))
	for _, d := range f.documents {
		docs = append(docs, *d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	if len(docs) > limit {
		docs = docs[:limit]
	}
	out := make([]models.RecentDocument, len(docs))
	for i, d := range docs {
		out[i] = models.RecentDocument{KnowledgeBaseDocument: d}
		if c, ok := f.configs[d.ChatbotConfigID]; ok {
			out[i].ChatbotName = c.Name
		}
	}
	return out, nil
}

// memFiles is an in-memory FileStore and DirRemover.
type memFiles struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemFiles() *memFiles {
	return &memFiles{objects: map[string][]byte{}}
}

func (m *memFiles) Put(key string, r io.Reader) (int64, error) {
	if m.putErr != nil {
		return 0, m.putErr
	}
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf
	return int64(len(buf)), nil
}

func (m *memFiles) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memFiles) DeleteDir(prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.objects {
		if len(k) > len(prefix) && k[:len(prefix)+1] == prefix+"/" {
			delete(m.objects, k)
		}
	}
	return nil
}

func (m *memFiles) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// recordingProducer captures enqueued document ids.
type recordingProducer struct {
	mu  sync.Mutex
	ids []int64
	err error
}

func (p *recordingProducer) Enqueue(_ context.Context, documentID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.ids = append(p.ids, documentID)
	return nil
}
