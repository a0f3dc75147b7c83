package repository

import (
	"fmt"
	"time"

	"servicebid/models"

	"golang.org/x/crypto/bcrypt"
)

// SeedDemoData loads the demo fixtures into an empty repository. A store that
// already holds users is left untouched so restarts keep accumulated state.
func SeedDemoData(repo EntityRepository) error {
	if len(repo.ListUsers()) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	now := time.Now()

	client := models.User{
		ID:           "client-1",
		Name:         "Alice",
		Surname:      "Johnson",
		Email:        "alice.j@email.lu",
		Phone:        "+352 621 123 456",
		Avatar:       "https://api.dicebear.com/7.x/avataaars/svg?seed=Alice",
		Role:         models.RoleClient,
		PasswordHash: string(hash),
		Languages:    []string{"EN", "FR", "LB"},
		Addresses: []models.Address{{
			ID:          "addr-1",
			Label:       "Home",
			Street:      "Avenue de la Gare",
			Number:      "42",
			PostalCode:  "L-1611",
			Locality:    "Luxembourg City",
			Floor:       "3",
			HasElevator: true,
		}},
		CreatedAt: now,
	}

	pro := models.User{
		ID:           "pro-1",
		Name:         "Roberto",
		Surname:      "Silva",
		Email:        "roberto.pro@servicebid.lu",
		Avatar:       "https://api.dicebear.com/7.x/avataaars/svg?seed=Roberto",
		Role:         models.RolePro,
		PasswordHash: string(hash),
		IsVerified:   true,
		Level:        "Master",
		XP:           4500,
		Rating:       4.9,
		ReviewsCount: 128,
		JoinedDate:   "2021",
		Bio:          "Certified Master Electrician and EV Specialist with 10+ years of experience. Expert in residential solar systems.",
		Languages:    []string{"PT", "FR", "EN"},
		AutoReply: &models.AutoReplyConfig{
			Enabled:      true,
			DelayMinutes: 2,
			Template:     models.AutoReplyTemplateOnMyWay,
		},
		CompanyDetails: &models.CompanyDetails{
			LegalName:     "Roberto Electric Solutions",
			LegalType:     "independant",
			VATNumber:     "LU12345678",
			RCSNumber:     "A12345",
			LicenseNumber: "10023456/0",
			LicenseExpiry: "2026-12-31",
			IBAN:          "LU88 0011 2233 4455 66",
			BankName:      "BGL BNP Paribas",
			Plan:          "Premium",
		},
		CreatedAt: now,
	}

	for _, u := range []models.User{client, pro} {
		user := u
		if err := repo.CreateUser(&user); err != nil {
			return err
		}
	}

	yesterday := now.Add(-24 * time.Hour)
	yesterdayEnd := now.Add(-23 * time.Hour)
	twoDaysAgo := now.Add(-48 * time.Hour)
	twoDaysAgoEnd := now.Add(-47 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)
	lastWeekEnd := lastWeek.Add(time.Hour)

	jobs := []models.JobRequest{
		{
			ID:             "job-confirmed-1",
			ClientID:       "client-1",
			Category:       models.CategoryElectrician,
			Description:    "Urgent: Power outage in the kitchen.",
			Urgency:        models.UrgencyUrgent,
			SuggestedPrice: 200,
			FinalPrice:     220,
			Status:         models.StatusConfirmed,
			Location:       "Route d'Esch, Luxembourg",
			Distance:       "3.2 km",
			CreatedAt:      now.Add(-time.Hour),
		},
		{
			ID:             "job-1",
			ClientID:       "client-99",
			Category:       models.CategoryElectrician,
			Description:    "Need to replace a circuit breaker that keeps tripping. Also check 2 outlets.",
			Photos:         []string{"https://picsum.photos/400/300?random=10"},
			Urgency:        models.UrgencyThisWeek,
			SuggestedPrice: 150,
			Status:         models.StatusOpen,
			Location:       "Luxembourg City, Avenue de la Gare",
			Distance:       "2.5 km",
			CreatedAt:      now.Add(-10 * time.Minute),
		},
		// Past jobs won by pro-1, feeding the earnings dashboard.
		{
			ID:                 "job-old-1",
			ClientID:           "client-55",
			Category:           models.CategoryElectrician,
			Description:        "Install EV Charger",
			Urgency:            models.UrgencyUrgent,
			SuggestedPrice:     850,
			FinalPrice:         900,
			Status:             models.StatusCompleted,
			AcceptedProposalID: "prop-old-1",
			Location:           "Kirchberg",
			Distance:           "5 km",
			CreatedAt:          yesterday,
			FinishedAt:         &yesterdayEnd,
		},
		{
			ID:                 "job-old-2",
			ClientID:           "client-56",
			Category:           models.CategorySolarEnergy,
			Description:        "Solar Panel Maintenance",
			Urgency:            models.UrgencyPlanning,
			SuggestedPrice:     200,
			FinalPrice:         200,
			Status:             models.StatusCompleted,
			AcceptedProposalID: "prop-old-2",
			Location:           "Bertrange",
			Distance:           "8 km",
			CreatedAt:          twoDaysAgo,
			FinishedAt:         &twoDaysAgoEnd,
		},
		{
			ID:                 "job-old-3",
			ClientID:           "client-57",
			Category:           models.CategoryElectrician,
			Description:        "Kitchen Rewiring",
			Urgency:            models.UrgencyThisWeek,
			SuggestedPrice:     1200,
			FinalPrice:         1250,
			Status:             models.StatusCompleted,
			AcceptedProposalID: "prop-old-3",
			Location:           "Esch-sur-Alzette",
			Distance:           "15 km",
			CreatedAt:          lastWeek,
			FinishedAt:         &lastWeekEnd,
		},
	}
	for _, j := range jobs {
		job := j
		if err := repo.CreateJob(&job); err != nil {
			return err
		}
	}

	proposals := []models.Proposal{
		{
			ID:        "prop-1",
			JobID:     "job-1",
			ProID:     "pro-2",
			ProName:   "Carlos M.",
			ProAvatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Carlos",
			ProLevel:  "Expert",
			ProRating: 4.8,
			Price:     180,
			Message:   "I can be there in 30 mins. Includes parts.",
			Distance:  "1.2 km",
			CreatedAt: now.Add(-2 * time.Minute),
		},
		// Accepted bids backing the completed jobs above.
		{
			ID: "prop-old-1", JobID: "job-old-1", ProID: "pro-1",
			ProName: "Roberto Silva", ProLevel: "Master", ProRating: 4.9,
			Price: 900, Status: models.StatusCompleted,
			CreatedAt: yesterday.Add(-time.Hour),
		},
		{
			ID: "prop-old-2", JobID: "job-old-2", ProID: "pro-1",
			ProName: "Roberto Silva", ProLevel: "Master", ProRating: 4.9,
			Price: 200, Status: models.StatusCompleted,
			CreatedAt: twoDaysAgo.Add(-time.Hour),
		},
		{
			ID: "prop-old-3", JobID: "job-old-3", ProID: "pro-1",
			ProName: "Roberto Silva", ProLevel: "Master", ProRating: 4.9,
			Price: 1250, Status: models.StatusCompleted,
			CreatedAt: lastWeek.Add(-time.Hour),
		},
	}
	for _, p := range proposals {
		proposal := p
		if err := repo.CreateProposal(&proposal); err != nil {
			return err
		}
	}
	return nil
}
