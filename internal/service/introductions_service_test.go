package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
)

func setupIntroductionsService() (*IntroductionsService, *MockPeopleRepository, *MockIntroductionsRepository) {
	people := new(MockPeopleRepository)
	repo := new(MockIntroductionsRepository)

	return NewIntroductionsService(people, repo, nil), people, repo
}

func TestIntroductionsService_Generate_NoEmbedding(t *testing.T) {
	svc, people, repo := setupIntroductionsService()
	ctx := context.Background()
	id := uuid.New()

	people.On("Get", mock.Anything, id).Return(&models.Person{ID: id, Name: "Ada"}, nil)

	resp, err := svc.Generate(ctx, id)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, huberrors.ErrPrecondition)
	assert.Equal(t, "Source person embedding not found", err.Error())

	people.AssertNotCalled(t, "MatchPeople", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIntroductionsService_Generate_PersonNotFound(t *testing.T) {
	svc, people, _ := setupIntroductionsService()
	ctx := context.Background()
	id := uuid.New()

	people.On("Get", mock.Anything, id).Return(nil, huberrors.NewNotFoundError("person", "Person not found"))

	_, err := svc.Generate(ctx, id)
	assert.ErrorIs(t, err, huberrors.ErrNotFound)
}

func TestIntroductionsService_Generate_ThresholdAndCap(t *testing.T) {
	svc, people, repo := setupIntroductionsService()
	ctx := context.Background()

	source := &models.Person{
		ID:        uuid.New(),
		Name:      "Ada",
		Title:     ptr("CTO"),
		Company:   ptr("Analytical"),
		Embedding: []float32{1, 0, 0},
	}

	// The store over-returns: a below-threshold row, the source itself and seven candidates.
	matches := []models.PersonMatch{
		{ID: source.ID, Name: "Ada", Similarity: 1},
		{ID: uuid.New(), Name: "Low", Similarity: 0.5},
	}
	for i := 0; i < 7; i++ {
		matches = append(matches, models.PersonMatch{ID: uuid.New(), Name: "Match", Similarity: 0.9 - float64(i)*0.01})
	}

	people.On("Get", mock.Anything, source.ID).Return(source, nil)
	people.On("MatchPeople", mock.Anything, source.Embedding, MatchThreshold, MaxMatches, source.ID).Return(matches, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("models.CreateIntroductionInput")).
		Return(&models.Introduction{ID: uuid.New(), Status: models.IntroductionGenerated}, nil)

	resp, err := svc.Generate(ctx, source.ID)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Message)
	require.Len(t, resp.Introductions, MaxMatches)

	repo.AssertNumberOfCalls(t, "Create", MaxMatches)

	for i, call := range repo.Calls {
		in := call.Arguments.Get(1).(models.CreateIntroductionInput)
		assert.Equal(t, source.ID, in.PersonAID)
		assert.NotEqual(t, source.ID, in.PersonBID)
		assert.GreaterOrEqual(t, in.MatchScore, MatchThreshold)
		assert.Equal(t, matches[i+2].ID, in.PersonBID, "candidates keep the store's order")
		assert.NotEmpty(t, in.Rationale.ForSource)
	}
}

func TestIntroductionsService_Generate_InsertFailureDropsMatch(t *testing.T) {
	svc, people, repo := setupIntroductionsService()
	ctx := context.Background()

	source := &models.Person{ID: uuid.New(), Name: "Ada", Embedding: []float32{1, 0}}
	good := models.PersonMatch{ID: uuid.New(), Name: "Grace", Similarity: 0.91}
	bad := models.PersonMatch{ID: uuid.New(), Name: "Linus", Similarity: 0.88}

	people.On("Get", mock.Anything, source.ID).Return(source, nil)
	people.On("MatchPeople", mock.Anything, source.Embedding, MatchThreshold, MaxMatches, source.ID).
		Return([]models.PersonMatch{good, bad}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(in models.CreateIntroductionInput) bool { return in.PersonBID == good.ID })).
		Return(&models.Introduction{ID: uuid.New(), PersonAID: source.ID, PersonBID: good.ID}, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(in models.CreateIntroductionInput) bool { return in.PersonBID == bad.ID })).
		Return(nil, errors.New("check constraint"))

	resp, err := svc.Generate(ctx, source.ID)
	require.NoError(t, err)
	require.Len(t, resp.Introductions, 1)
	assert.Equal(t, good.ID, resp.Introductions[0].PersonBID)
}

func TestIntroductionsService_Generate_NoMatches(t *testing.T) {
	svc, people, repo := setupIntroductionsService()
	ctx := context.Background()

	source := &models.Person{ID: uuid.New(), Name: "Ada", Embedding: []float32{1}}

	people.On("Get", mock.Anything, source.ID).Return(source, nil)
	people.On("MatchPeople", mock.Anything, source.Embedding, MatchThreshold, MaxMatches, source.ID).
		Return([]models.PersonMatch{{ID: uuid.New(), Similarity: 0.77}}, nil)

	resp, err := svc.Generate(ctx, source.ID)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "No matches found", resp.Message)
	assert.NotNil(t, resp.Introductions)
	assert.Empty(t, resp.Introductions)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBuildRationale(t *testing.T) {
	tests := []struct {
		name          string
		source        *models.Person
		target        models.PersonMatch
		wantForSource string
		wantForTarget string
	}{
		{
			name: "full profiles",
			source: &models.Person{
				Name: "Ada", Title: ptr("CTO"), Company: ptr("Analytical"),
				ReasonsToIntroduce: ptr("Knows compilers."),
			},
			target: models.PersonMatch{
				Name: "Grace", Title: ptr("Admiral"), Company: ptr("Navy"),
				ReasonsToIntroduce: ptr("Hiring engineers."),
			},
			wantForSource: "Grace is Admiral at Navy. Hiring engineers.",
			wantForTarget: "Ada is CTO at Analytical. Knows compilers.",
		},
		{
			name:          "empty profiles fall back",
			source:        &models.Person{},
			target:        models.PersonMatch{Name: "Grace", Company: ptr("Navy")},
			wantForSource: "Grace works at Navy. You share overlapping interests and goals.",
			wantForTarget: "This person has a closely matching profile. You share overlapping interests and goals.",
		},
		{
			name:          "title only",
			source:        &models.Person{Name: "Ada", Title: ptr("CTO")},
			target:        models.PersonMatch{Name: "Grace"},
			wantForSource: "Grace has a closely matching profile. You share overlapping interests and goals.",
			wantForTarget: "Ada is CTO. You share overlapping interests and goals.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := BuildRationale(tt.source, tt.target)
			assert.Equal(t, tt.wantForSource, r.ForSource)
			assert.Equal(t, tt.wantForTarget, r.ForTarget)
		})
	}
}

func TestIntroductionsService_ListAndUpdate(t *testing.T) {
	svc, _, repo := setupIntroductionsService()
	ctx := context.Background()
	personID := uuid.New()

	t.Run("list defaults the limit", func(t *testing.T) {
		filters := &models.ListIntroductionsFilters{PersonID: personID}
		repo.On("ListByPerson", mock.Anything, filters).Return([]models.Introduction{{ID: uuid.New()}}, nil).Once()

		intros, err := svc.ListIntroductions(ctx, filters)
		require.NoError(t, err)
		assert.Len(t, intros, 1)
		assert.Equal(t, defaultIntroductionsLimit, filters.Limit)
	})

	t.Run("update rejects unknown status", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, uuid.New(), &models.UpdateIntroductionRequest{Status: "archived"})
		assert.ErrorIs(t, err, huberrors.ErrValidation)
	})

	t.Run("update stores status", func(t *testing.T) {
		id := uuid.New()
		repo.On("UpdateStatus", mock.Anything, id, models.IntroductionAccepted).
			Return(&models.Introduction{ID: id, Status: models.IntroductionAccepted}, nil).Once()

		intro, err := svc.UpdateStatus(ctx, id, &models.UpdateIntroductionRequest{Status: models.IntroductionAccepted})
		require.NoError(t, err)
		assert.Equal(t, models.IntroductionAccepted, intro.Status)
	})
}
