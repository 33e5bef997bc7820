package services

import (
	"context"
	"testing"

	"go-storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAverageRating(t *testing.T) {
	assert.Equal(t, 0.0, AverageRating(nil))
	assert.Equal(t, 4.3, AverageRating([]models.Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}))
}

func TestReviewService_Moderation(t *testing.T) {
	dress := product("dress", 89)
	reviews := &fakeReviewRepo{}
	svc := NewReviewService(reviews, &fakeProductRepo{products: []models.Product{dress}})
	ctx := context.Background()

	r := &models.Review{ProductID: dress.ID, UserID: primitive.NewObjectID(), AuthorName: "Awa", Rating: 5, Comment: "  Perfect fit  ", IsApproved: true}
	require.NoError(t, svc.Submit(ctx, r))
	assert.False(t, r.IsApproved, "new reviews wait for moderation")
	assert.Equal(t, "Perfect fit", r.Comment)

	summary, err := svc.Summary(ctx, dress.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Count)
	assert.NotNil(t, summary.Reviews)

	require.NoError(t, svc.Approve(ctx, r.ID))
	summary, err = svc.Summary(ctx, dress.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, 5.0, summary.Average)
}

func TestReviewService_SubmitRejects(t *testing.T) {
	svc := NewReviewService(&fakeReviewRepo{}, &fakeProductRepo{})
	ctx := context.Background()

	err := svc.Submit(ctx, &models.Review{ProductID: primitive.NewObjectID(), Rating: 6})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "rating")

	err = svc.Submit(ctx, &models.Review{ProductID: primitive.NewObjectID(), Rating: 3})
	assert.ErrorIs(t, err, ErrNotFound)
}
