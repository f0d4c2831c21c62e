package service

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	standardwebhooks "github.com/standard-webhooks/standard-webhooks/libraries/go"

	"github.com/networkbrain/brain/internal/datatypes"
	"github.com/networkbrain/brain/internal/models"
)

func TestApplicationsService_Ingest_NameAndEmailOnly(t *testing.T) {
	ctx := context.Background()
	people := new(MockPeopleRepository)
	communities := new(MockCommunitiesRepository)
	publisher := new(MockPublisher)

	svc, err := NewApplicationsService(people, communities, publisher, "", "network", nil)
	require.NoError(t, err)

	received := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return received }

	person := &models.Person{ID: uuid.New(), Name: "Ada"}
	community := &models.Community{ID: uuid.New(), Name: "Network", Slug: "network"}

	people.On("UpsertByEmail", ctx, models.UpsertPersonInput{
		Name:  "Ada",
		Email: "ada@example.com",
		ApplicationMetadata: &models.ApplicationMetadata{
			Version:    models.ApplicationContractVersion,
			Community:  "network",
			ReceivedAt: received,
		},
	}).Return(person, nil)
	communities.On("EnsureBySlug", ctx, "network", "Network").Return(community, nil)
	communities.On("UpsertMembership", ctx, community.ID, person.ID, models.MembershipApplied).
		Return(&models.CommunityMember{CommunityID: community.ID, PersonID: person.ID, Status: models.MembershipApplied}, nil)
	publisher.On("PublishEvent", ctx, datatypes.PersonUpserted, person).Return()

	resp, err := svc.Ingest(ctx, &models.ApplicationWebhookPayload{Name: " Ada ", Email: "Ada@Example.com"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, person.ID, resp.PersonID)
	assert.Equal(t, community.ID, resp.CommunityID)

	people.AssertExpectations(t)
	communities.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestApplicationsService_Ingest_CommunityFromPayload(t *testing.T) {
	ctx := context.Background()
	people := new(MockPeopleRepository)
	communities := new(MockCommunitiesRepository)

	svc, err := NewApplicationsService(people, communities, nil, "", "network", nil)
	require.NoError(t, err)

	person := &models.Person{ID: uuid.New()}
	community := &models.Community{ID: uuid.New()}

	people.On("UpsertByEmail", ctx, mock.MatchedBy(func(in models.UpsertPersonInput) bool {
		return in.ApplicationMetadata.Community == "founders-circle" && len(in.ApplicationMetadata.Answers) == 1
	})).Return(person, nil)
	communities.On("EnsureBySlug", ctx, "founders-circle", "Founders Circle").Return(community, nil)
	communities.On("UpsertMembership", ctx, community.ID, person.ID, models.MembershipApplied).
		Return(&models.CommunityMember{}, nil)

	_, err = svc.Ingest(ctx, &models.ApplicationWebhookPayload{
		Name:      "Grace",
		Email:     "grace@example.com",
		Community: "Founders Circle!",
		Answers:   []models.ApplicationAnswer{{Question: "Why?", Answer: "Ships."}},
	})
	require.NoError(t, err)
	communities.AssertExpectations(t)
}

func TestApplicationsService_Ingest_StoreError(t *testing.T) {
	ctx := context.Background()
	people := new(MockPeopleRepository)
	communities := new(MockCommunitiesRepository)

	svc, err := NewApplicationsService(people, communities, nil, "", "network", nil)
	require.NoError(t, err)

	people.On("UpsertByEmail", ctx, mock.Anything).Return(nil, errors.New("database unavailable"))

	_, err = svc.Ingest(ctx, &models.ApplicationWebhookPayload{Name: "Ada", Email: "ada@example.com"})
	require.Error(t, err)
	communities.AssertNotCalled(t, "EnsureBySlug", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplicationsService_VerifySignature(t *testing.T) {
	ctx := context.Background()
	secret := "whsec_" + base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	body := []byte(`{"name":"Ada","email":"ada@example.com"}`)

	signer, err := standardwebhooks.NewWebhook(secret)
	require.NoError(t, err)

	now := time.Now()
	signature, err := signer.Sign("msg_1", now, body)
	require.NoError(t, err)

	signedHeaders := func() http.Header {
		h := http.Header{}
		h.Set(standardwebhooks.HeaderWebhookID, "msg_1")
		h.Set(standardwebhooks.HeaderWebhookTimestamp, strconv.FormatInt(now.Unix(), 10))
		h.Set(standardwebhooks.HeaderWebhookSignature, signature)

		return h
	}

	svc, err := NewApplicationsService(nil, nil, nil, secret, "network", nil)
	require.NoError(t, err)

	t.Run("valid signature", func(t *testing.T) {
		assert.NoError(t, svc.VerifySignature(ctx, body, signedHeaders()))
	})

	t.Run("tampered body", func(t *testing.T) {
		err := svc.VerifySignature(ctx, []byte(`{"name":"Eve"}`), signedHeaders())
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("missing headers", func(t *testing.T) {
		err := svc.VerifySignature(ctx, body, http.Header{})
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("no secret accepts anything", func(t *testing.T) {
		open, err := NewApplicationsService(nil, nil, nil, "", "network", nil)
		require.NoError(t, err)
		assert.NoError(t, open.VerifySignature(ctx, body, http.Header{}))
	})
}

func TestCommunitySlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{in: "", want: ""},
		{in: "network", want: "network"},
		{in: "Founders Circle!", want: "founders-circle"},
		{in: "  --AI  & ML-- ", want: "ai-ml"},
		{in: "Berlin 2026 Cohort", want: "berlin-2026-cohort"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, communitySlug(tt.in), tt.in)
	}
}
