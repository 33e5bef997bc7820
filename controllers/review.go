package controllers

import (
	"net/http"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/services"
)

type ReviewController struct {
	Reviews *services.ReviewService
	Users   *services.UserService
}

func NewReviewController(reviews *services.ReviewService, users *services.UserService) *ReviewController {
	return &ReviewController{Reviews: reviews, Users: users}
}

// GetProductReviews returns approved reviews with the average rating.
func (rc *ReviewController) GetProductReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	summary, err := rc.Reviews.Summary(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// CreateReview stores a rating from the authenticated user. It is shown
// once an admin approves it.
func (rc *ReviewController) CreateReview(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID := middleware.UserID(r.Context())
	if userID == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var body struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	author := "Customer"
	if u, err := rc.Users.Profile(r.Context(), *userID); err == nil && u.Name != "" {
		author = u.Name
	}
	review := &models.Review{
		ProductID:  productID,
		UserID:     *userID,
		AuthorName: author,
		Rating:     body.Rating,
		Comment:    body.Comment,
	}
	if err := rc.Reviews.Submit(r.Context(), review); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (rc *ReviewController) ApproveReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := rc.Reviews.Approve(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rc *ReviewController) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := rc.Reviews.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
