package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"github.com/networkbrain/brain/internal/datatypes"
	"github.com/networkbrain/brain/internal/gcal"
	"github.com/networkbrain/brain/internal/models"
	"github.com/networkbrain/brain/pkg/proxycurl"
)

// MockPeopleRepository implements every people-store interface used by the services.
type MockPeopleRepository struct {
	mock.Mock
}

func (m *MockPeopleRepository) Get(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Person), args.Error(1)
}

func (m *MockPeopleRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPeopleRepository) UpdateContact(ctx context.Context, id uuid.UUID, u models.ContactUpdate) error {
	return m.Called(ctx, id, u).Error(0)
}

func (m *MockPeopleRepository) UpdateProfile(ctx context.Context, id uuid.UUID, u models.ProfileUpdate) error {
	return m.Called(ctx, id, u).Error(0)
}

func (m *MockPeopleRepository) UpsertByEmail(ctx context.Context, in models.UpsertPersonInput) (*models.Person, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Person), args.Error(1)
}

func (m *MockPeopleRepository) SetEmbedding(
	ctx context.Context, id uuid.UUID, embedding []float32, meta models.EmbeddingMetadata,
) error {
	return m.Called(ctx, id, embedding, meta).Error(0)
}

func (m *MockPeopleRepository) ListMissingEmbeddings(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockPeopleRepository) MatchPeople(
	ctx context.Context, embedding []float32, threshold float64, limit int, excludeID uuid.UUID,
) ([]models.PersonMatch, error) {
	args := m.Called(ctx, embedding, threshold, limit, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PersonMatch), args.Error(1)
}

// MockNotesRepository is a mock of the notes store.
type MockNotesRepository struct {
	mock.Mock
}

func (m *MockNotesRepository) Create(
	ctx context.Context, personID uuid.UUID, content string, source models.NoteSource,
) (*models.Note, error) {
	args := m.Called(ctx, personID, content, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockNotesRepository) ListByPerson(ctx context.Context, personID uuid.UUID, limit, offset int) ([]models.Note, error) {
	args := m.Called(ctx, personID, limit, offset)
	return args.Get(0).([]models.Note), args.Error(1)
}

// MockEventsRepository is a mock of the events store.
type MockEventsRepository struct {
	mock.Mock
}

func (m *MockEventsRepository) ListByPerson(ctx context.Context, personID uuid.UUID, limit, offset int) ([]models.Event, error) {
	args := m.Called(ctx, personID, limit, offset)
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventsRepository) Upsert(ctx context.Context, in models.UpsertEventInput) (*models.Event, int, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).(*models.Event), args.Int(1), args.Error(2)
}

// MockIntroductionsRepository is a mock of the introductions store.
type MockIntroductionsRepository struct {
	mock.Mock
}

func (m *MockIntroductionsRepository) Create(ctx context.Context, in models.CreateIntroductionInput) (*models.Introduction, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Introduction), args.Error(1)
}

func (m *MockIntroductionsRepository) ListByPerson(
	ctx context.Context, filters *models.ListIntroductionsFilters,
) ([]models.Introduction, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]models.Introduction), args.Error(1)
}

func (m *MockIntroductionsRepository) UpdateStatus(
	ctx context.Context, id uuid.UUID, status models.IntroductionStatus,
) (*models.Introduction, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Introduction), args.Error(1)
}

// MockCommunitiesRepository is a mock of the communities store.
type MockCommunitiesRepository struct {
	mock.Mock
}

func (m *MockCommunitiesRepository) EnsureBySlug(ctx context.Context, slug, name string) (*models.Community, error) {
	args := m.Called(ctx, slug, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Community), args.Error(1)
}

func (m *MockCommunitiesRepository) UpsertMembership(
	ctx context.Context, communityID, personID uuid.UUID, status models.MembershipStatus,
) (*models.CommunityMember, error) {
	args := m.Called(ctx, communityID, personID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommunityMember), args.Error(1)
}

// MockSystemPromptsRepository is a mock of the system prompt store.
type MockSystemPromptsRepository struct {
	mock.Mock
}

func (m *MockSystemPromptsRepository) GetByKey(ctx context.Context, key string) (*models.SystemPrompt, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SystemPrompt), args.Error(1)
}

func (m *MockSystemPromptsRepository) List(ctx context.Context) ([]models.SystemPrompt, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.SystemPrompt), args.Error(1)
}

func (m *MockSystemPromptsRepository) Upsert(ctx context.Context, key, name, prompt string) (*models.SystemPrompt, error) {
	args := m.Called(ctx, key, name, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SystemPrompt), args.Error(1)
}

// MockPromptSource is a mock of the prompt lookup used by enrichment.
type MockPromptSource struct {
	mock.Mock
}

func (m *MockPromptSource) GetPrompt(ctx context.Context, key string) (*models.SystemPrompt, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SystemPrompt), args.Error(1)
}

// MockChatClient is a mock LLM.
type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) CompleteJSON(ctx context.Context, systemPrompt, userContent string) (string, error) {
	args := m.Called(ctx, systemPrompt, userContent)
	return args.String(0), args.Error(1)
}

// MockEmbeddingClient is a mock embedding model.
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) CreateEmbedding(ctx context.Context, input string) ([]float32, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *MockEmbeddingClient) Model() string {
	return m.Called().String(0)
}

// MockProfileLookup is a mock LinkedIn data provider.
type MockProfileLookup struct {
	mock.Mock
}

func (m *MockProfileLookup) GetProfile(ctx context.Context, linkedInURL string) (*proxycurl.Profile, error) {
	args := m.Called(ctx, linkedInURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*proxycurl.Profile), args.Error(1)
}

func (m *MockProfileLookup) LookupProfile(ctx context.Context, opts proxycurl.LookupOptions) (*proxycurl.Profile, string, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*proxycurl.Profile), args.String(1), args.Error(2)
}

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEvent(ctx context.Context, eventType datatypes.EventType, data any) {
	m.Called(ctx, eventType, data)
}

func (m *MockPublisher) PublishEventWithChangedFields(
	ctx context.Context, eventType datatypes.EventType, data any, changedFields []string,
) {
	m.Called(ctx, eventType, data, changedFields)
}

// MockCalendarAPI is a mock Google Calendar client.
type MockCalendarAPI struct {
	mock.Mock
}

func (m *MockCalendarAPI) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockCalendarAPI) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockCalendarAPI) PrimaryCalendarID(ctx context.Context, token *oauth2.Token) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockCalendarAPI) ListEvents(
	ctx context.Context, token *oauth2.Token, opts gcal.ListOptions,
) ([]models.UpsertEventInput, *oauth2.Token, error) {
	args := m.Called(ctx, token, opts)

	var (
		events    []models.UpsertEventInput
		refreshed *oauth2.Token
	)

	if v := args.Get(0); v != nil {
		events = v.([]models.UpsertEventInput)
	}

	if v := args.Get(1); v != nil {
		refreshed = v.(*oauth2.Token)
	}

	return events, refreshed, args.Error(2)
}

// MockOAuthState is a mock state signer.
type MockOAuthState struct {
	mock.Mock
}

func (m *MockOAuthState) New() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockOAuthState) Verify(state string) bool {
	return m.Called(state).Bool(0)
}

// MockCalendarConnections is a mock token store.
type MockCalendarConnections struct {
	mock.Mock
}

func (m *MockCalendarConnections) Save(ctx context.Context, account string, token json.RawMessage) error {
	return m.Called(ctx, account, token).Error(0)
}

func (m *MockCalendarConnections) Get(ctx context.Context, account string) (json.RawMessage, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func ptr[T any](v T) *T { return &v }
