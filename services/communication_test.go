package services

import (
	"context"
	"net/http"
	"testing"

	"vesta_nest/models"
)

func TestAmenityList_Shapes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/amenities":
			writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":1,"name":"Pool"},{"id":2,"name":"Gym"}]}`)
		case "/api/v1/amenities/popular":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"amenities":[{"id":2,"name":"Gym","properties_count":40}]}}`)
		case "/api/v1/amenities/2":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"amenity":{"id":2,"name":"Gym"}}}`)
		}
	}, "")

	svc := NewAmenityService(client)
	ctx := context.Background()

	all, err := svc.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("list: %v %+v", err, all)
	}
	popular, err := svc.Popular(ctx, 5)
	if err != nil || len(popular) != 1 || popular[0].PropertiesCount != 40 {
		t.Fatalf("popular: %v %+v", err, popular)
	}
	one, err := svc.Show(ctx, 2)
	if err != nil || one.Name != "Gym" {
		t.Fatalf("show: %v %+v", err, one)
	}
}

func TestCommunication_ReviewsAndInquiries(t *testing.T) {
	var reviewAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/reviews":
			reviewAuth = r.Header.Get("Authorization")
			writeJSON(w, http.StatusCreated, `{"success":true,"data":{"review":{"id":11,"property_id":4,"rating":5,"comment":"Great"}}}`)
		case "/api/v1/reviews/property/4":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"reviews":{"data":[{"id":11,"rating":5},{"id":12,"rating":3}]}}}`)
		case "/api/v1/inquiries":
			writeJSON(w, http.StatusCreated, `{"success":true,"data":{"id":3,"property_id":4,"name":"Ada","email":"ada@example.com","message":"Available?"}}`)
		case "/api/v1/schedule-viewings":
			writeJSON(w, http.StatusUnprocessableEntity, `{"message":"The preferred date field is required.","errors":{"preferred_date":["required"]}}`)
		}
	}, "tok")

	svc := NewCommunicationService(client)
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, models.Review{PropertyID: 4, Rating: 5, Comment: "Great"})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	if review.ID != 11 || reviewAuth != "Bearer tok" {
		t.Fatalf("unexpected review %+v auth %q", review, reviewAuth)
	}
	if _, err := svc.CreateReview(ctx, models.Review{PropertyID: 4, Rating: 9}); err == nil {
		t.Fatalf("expected rating validation error")
	}

	reviews, err := svc.PropertyReviews(ctx, 4)
	if err != nil || len(reviews) != 2 {
		t.Fatalf("property reviews: %v %+v", err, reviews)
	}

	inq, err := svc.CreateInquiry(ctx, models.Inquiry{PropertyID: 4, Name: "Ada", Email: "ada@example.com", Message: "Available?"})
	if err != nil || inq.ID != 3 {
		t.Fatalf("create inquiry: %v %+v", err, inq)
	}

	_, err = svc.ScheduleViewing(ctx, models.ViewingRequest{PropertyID: 4})
	if err == nil || err.Error() != "The preferred date field is required. (status 422)" {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewsletterAndViews(t *testing.T) {
	var statusQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/newsletter/status":
			statusQuery = r.URL.Query().Get("email")
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"subscribed":true,"frequency":"weekly"}}`)
		case "/api/v1/newsletter/subscribe":
			writeJSON(w, http.StatusOK, `{"success":true,"message":"Subscribed"}`)
		case "/api/v1/property-views":
			writeJSON(w, http.StatusCreated, `{"success":true,"data":{"id":77,"property_id":4}}`)
		case "/api/v1/property-views/my-views":
			if r.Header.Get("Authorization") == "" {
				writeJSON(w, http.StatusUnauthorized, `{"message":"Unauthenticated."}`)
				return
			}
			writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":77,"property_id":4}]}`)
		case "/api/v1/property-views/statistics":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"total_views":120,"unique_viewers":80}}`)
		}
	}, "tok")

	ctx := context.Background()
	news := NewNewsletterService(client)

	status, err := news.Status(ctx, "ada@example.com")
	if err != nil || !status.Subscribed || status.Email != "ada@example.com" || statusQuery != "ada@example.com" {
		t.Fatalf("newsletter status: %v %+v query %q", err, status, statusQuery)
	}
	msg, err := news.Subscribe(ctx, models.NewsletterSubscription{Email: "ada@example.com"})
	if err != nil || msg.Message != "Subscribed" {
		t.Fatalf("subscribe: %v %+v", err, msg)
	}

	views := NewPropertyViewService(client)
	view, err := views.Record(ctx, 4, "cli")
	if err != nil || view.ID != 77 || view.Source != "cli" {
		t.Fatalf("record view: %v %+v", err, view)
	}
	mine, err := views.MyViews(ctx)
	if err != nil || len(mine) != 1 {
		t.Fatalf("my views: %v %+v", err, mine)
	}
	stats, err := views.Statistics(ctx)
	if err != nil || stats.TotalViews != 120 {
		t.Fatalf("view stats: %v %+v", err, stats)
	}
}
