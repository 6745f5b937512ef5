package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/profilehub/membership-service/internal/core/domain"
)

// demoUsers covers every branch of the membership rules: premium tiers,
// eligible free members and both kinds of "almost eligible" status.
var demoUsers = []struct {
	name       string
	email      string
	membership domain.MembershipType
	purchases  int
	spent      float64
	ageDays    int
}{
	{"Ana Souza", "ana.souza@example.com", domain.MembershipPremium, 72, 2310.40, 640},
	{"Bruno Lima", "bruno.lima@example.com", domain.MembershipPremium, 18, 420.00, 300},
	{"Carla Mendes", "carla.mendes@example.com", domain.MembershipPremium, 55, 610.99, 455},
	{"Diego Rocha", "diego.rocha@example.com", domain.MembershipFree, 12, 95.50, 120},
	{"Elisa Castro", "elisa.castro@example.com", domain.MembershipFree, 4, 730.00, 90},
	{"Fábio Nunes", "fabio.nunes@example.com", domain.MembershipFree, 3, 10.00, 45},
	{"Gabriela Pires", "gabriela.pires@example.com", domain.MembershipFree, 1, 410.00, 30},
	{"Hugo Teixeira", "hugo.teixeira@example.com", domain.MembershipFree, 0, 0, 5},
	{"Inês Duarte", "ines.duarte@example.com", domain.MembershipPremium, 9, 1500.00, 700},
	{"João Batista", "joao.batista@example.com", domain.MembershipFree, 9, 499.99, 210},
}

// SeedDemoUsers stores ten deterministic demo users with ids "1".."10".
func SeedDemoUsers(ctx context.Context, repo *UserRepository, now time.Time) error {
	for i, d := range demoUsers {
		u, err := domain.NewUser(domain.UserAttributes{
			ID:             fmt.Sprintf("%d", i+1),
			Email:          d.email,
			Name:           d.name,
			MembershipType: d.membership,
			PurchaseCount:  d.purchases,
			TotalSpent:     d.spent,
			CreatedAt:      now.AddDate(0, 0, -d.ageDays),
		})
		if err != nil {
			return fmt.Errorf("seed demo user %d: %w", i+1, err)
		}
		if err := repo.Save(ctx, u); err != nil {
			return fmt.Errorf("seed demo user %d: %w", i+1, err)
		}
	}
	return nil
}
