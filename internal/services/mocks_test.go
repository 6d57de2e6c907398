package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/voiceprep/interview-service/internal/cache"
	"github.com/voiceprep/interview-service/internal/models"
	"github.com/voiceprep/interview-service/internal/repositories"
	"github.com/voiceprep/interview-service/internal/utils"
)

func newTestValidator() *utils.Validator {
	return utils.NewValidator()
}

func gormNotFound() error {
	return gorm.ErrRecordNotFound
}

// ===== REPOSITORY MOCKS =====

type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) Create(ctx context.Context, record *models.AnswerRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAnswerRepository) GetByID(ctx context.Context, id uint) (*models.AnswerRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnswerRecord), args.Error(1)
}

func (m *MockAnswerRepository) ExistsByUserAndQuestion(ctx context.Context, userID, questionText string) (bool, error) {
	args := m.Called(ctx, userID, questionText)
	return args.Bool(0), args.Error(1)
}

func (m *MockAnswerRepository) GetByUser(ctx context.Context, userID string, filters repositories.AnswerFilters) ([]*models.AnswerRecord, int64, error) {
	args := m.Called(ctx, userID, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.AnswerRecord), args.Get(1).(int64), args.Error(2)
}

type MockInterviewRepository struct {
	mock.Mock
}

func (m *MockInterviewRepository) Create(ctx context.Context, interview *models.Interview) error {
	args := m.Called(ctx, interview)
	return args.Error(0)
}

func (m *MockInterviewRepository) GetByID(ctx context.Context, id uint) (*models.Interview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Interview), args.Error(1)
}

func (m *MockInterviewRepository) GetByUser(ctx context.Context, userID string) ([]*models.Interview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Interview), args.Error(1)
}

type mockRepository struct {
	answers    *MockAnswerRepository
	interviews *MockInterviewRepository
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		answers:    new(MockAnswerRepository),
		interviews: new(MockInterviewRepository),
	}
}

func (r *mockRepository) Answer() repositories.AnswerRepository       { return r.answers }
func (r *mockRepository) Interview() repositories.InterviewRepository { return r.interviews }

// ===== AI MOCK =====

type MockPromptSender struct {
	mock.Mock
}

func (m *MockPromptSender) SendPrompt(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// ===== CACHE FAKE =====

// fakeCache is an in-memory CacheService that ignores TTLs. TTL expiry is
// Redis behavior and not under test here.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = data
	return nil
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	data, ok := f.entries[key]
	f.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	return nil
}
