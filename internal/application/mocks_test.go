package application

import (
	"context"
	"sort"
	"sync"

	"posterforge/internal/domain"
)

// MockGeminiClient は、テスト用のモックGeminiクライアントです
type MockGeminiClient struct {
	response    string
	error       error
	calls       int
	lastOptions TextGenerationOptions
	lastPrompt  domain.Prompt
	mu          sync.Mutex
}

func (m *MockGeminiClient) GenerateText(ctx context.Context, prompt domain.Prompt, options TextGenerationOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastOptions = options
	m.lastPrompt = prompt
	return m.response, m.error
}

// MockDesignRepository は、テスト用のモックリポジトリです
type MockDesignRepository struct {
	designs   map[string]domain.Design
	saveError error
	mu        sync.Mutex
}

func NewMockDesignRepository() *MockDesignRepository {
	return &MockDesignRepository{designs: make(map[string]domain.Design)}
}

func (m *MockDesignRepository) Save(ctx context.Context, design domain.Design) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.designs[design.ID] = design
	return nil
}

func (m *MockDesignRepository) Load(ctx context.Context, userID, designID string) (domain.Design, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	design, ok := m.designs[designID]
	if !ok || design.UserID != userID {
		return domain.Design{}, domain.ErrDesignNotFound
	}
	return design, nil
}

func (m *MockDesignRepository) List(ctx context.Context, userID string) ([]domain.Design, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var designs []domain.Design
	for _, design := range m.designs {
		if design.UserID == userID {
			designs = append(designs, design)
		}
	}
	sort.Slice(designs, func(i, j int) bool {
		return designs[i].CreatedAt.After(designs[j].CreatedAt)
	})
	return designs, nil
}

func (m *MockDesignRepository) Delete(ctx context.Context, userID, designID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	design, ok := m.designs[designID]
	if !ok || design.UserID != userID {
		return domain.ErrDesignNotFound
	}
	delete(m.designs, designID)
	return nil
}

func (m *MockDesignRepository) IncrementDownloads(ctx context.Context, userID, designID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	design, ok := m.designs[designID]
	if !ok || design.UserID != userID {
		return 0, domain.ErrDesignNotFound
	}
	design.Downloads++
	m.designs[designID] = design
	return design.Downloads, nil
}

// MockSessionStore は、テスト用のモックセッションストアです
type MockSessionStore struct {
	sessions map[string]*domain.EditorSession
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{sessions: make(map[string]*domain.EditorSession)}
}

func (m *MockSessionStore) Get(ctx context.Context, userID string) (*domain.EditorSession, error) {
	session, ok := m.sessions[userID]
	if !ok {
		return nil, domain.ErrNoEditorSession
	}
	return session, nil
}

func (m *MockSessionStore) Put(ctx context.Context, session *domain.EditorSession) error {
	m.sessions[session.UserID] = session
	return nil
}

func (m *MockSessionStore) Delete(ctx context.Context, userID string) error {
	delete(m.sessions, userID)
	return nil
}

// MockRenderer は、テスト用のモックレンダラーです
type MockRenderer struct {
	lastScene *domain.Scene
	error     error
}

func (m *MockRenderer) RenderPNG(scene *domain.Scene) ([]byte, error) {
	m.lastScene = scene
	if m.error != nil {
		return nil, m.error
	}
	return []byte("png"), nil
}

// MockGuildConfigManager は、テスト用のモックギルド設定リポジトリです
type MockGuildConfigManager struct {
	configs  map[string]domain.GuildConfig
	getError error
}

func NewMockGuildConfigManager() *MockGuildConfigManager {
	return &MockGuildConfigManager{configs: make(map[string]domain.GuildConfig)}
}

func (m *MockGuildConfigManager) SetAPIKey(ctx context.Context, guildID, apiKey, setBy string) error {
	config := m.configs[guildID]
	config.GuildID, config.APIKey, config.SetBy = guildID, apiKey, setBy
	m.configs[guildID] = config
	return nil
}

func (m *MockGuildConfigManager) DeleteAPIKey(ctx context.Context, guildID string) error {
	config := m.configs[guildID]
	config.APIKey = ""
	m.configs[guildID] = config
	return nil
}

func (m *MockGuildConfigManager) GetGuildConfig(ctx context.Context, guildID string) (domain.GuildConfig, error) {
	if m.getError != nil {
		return domain.GuildConfig{}, m.getError
	}
	config := m.configs[guildID]
	config.GuildID = guildID
	return config, nil
}

func (m *MockGuildConfigManager) SetGuildModel(ctx context.Context, guildID, model string) error {
	config := m.configs[guildID]
	config.Model = model
	m.configs[guildID] = config
	return nil
}

func (m *MockGuildConfigManager) SetDefaultFormat(ctx context.Context, guildID string, format domain.Format) error {
	config := m.configs[guildID]
	config.DefaultFormat = format
	m.configs[guildID] = config
	return nil
}

// MockThumbnailDownloadRepository は、テスト用のモックリポジトリです
type MockThumbnailDownloadRepository struct {
	downloads []domain.ThumbnailDownload
}

func (m *MockThumbnailDownloadRepository) RecordDownload(ctx context.Context, download domain.ThumbnailDownload) error {
	m.downloads = append(m.downloads, download)
	return nil
}

func (m *MockThumbnailDownloadRepository) ListDownloads(ctx context.Context, userID string) ([]domain.ThumbnailDownload, error) {
	var result []domain.ThumbnailDownload
	for i := len(m.downloads) - 1; i >= 0; i-- {
		if m.downloads[i].UserID == userID {
			result = append(result, m.downloads[i])
		}
	}
	return result, nil
}
