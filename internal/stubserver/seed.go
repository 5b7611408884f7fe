package stubserver

import (
	"github.com/jabirmahmud0/techhive-client/pkg/config"
	"github.com/jabirmahmud0/techhive-client/pkg/security"
	"github.com/jabirmahmud0/techhive-client/pkg/types"
)

// Demo credentials seeded for local development.
const (
	SeedAdminEmail    = "admin@techhive.dev"
	SeedAdminPassword = "admin123"
)

// Seed loads a demo catalog and an admin account so a fresh stub backend
// is immediately usable.
func Seed(store *Store, password config.PasswordConfig) error {
	hash, err := security.HashPassword(SeedAdminPassword, password)
	if err != nil {
		return err
	}
	if _, err := store.createUser(userRecord{
		Name:         "TechHive Admin",
		Email:        SeedAdminEmail,
		PasswordHash: hash,
		IsAdmin:      true,
	}); err != nil {
		return err
	}

	for _, product := range []types.Product{
		{
			Name:         "Nebula X1 Smartphone",
			Description:  "6.5-inch OLED display with a two-day battery.",
			Brand:        "TechCorp",
			Category:     "Smartphones",
			Price:        699.99,
			CountInStock: 25,
			Image:        "/images/nebula-x1.jpg",
		},
		{
			Name:         "AeroBook 14 Laptop",
			Description:  "Thin-and-light ultrabook for work and travel.",
			Brand:        "TechCorp",
			Category:     "Laptops",
			Price:        1199.00,
			CountInStock: 12,
			Image:        "/images/aerobook-14.jpg",
		},
		{
			Name:         "PulseBuds Pro",
			Description:  "Noise-cancelling earbuds with wireless charging.",
			Brand:        "SoundWave",
			Category:     "Audio",
			Price:        149.50,
			CountInStock: 60,
			Image:        "/images/pulsebuds-pro.jpg",
		},
		{
			Name:         "Vortex GX Gaming Mouse",
			Description:  "Lightweight mouse with a 26K DPI sensor.",
			Brand:        "GameMaster",
			Category:     "Accessories",
			Price:        59.99,
			CountInStock: 80,
			Image:        "/images/vortex-gx.jpg",
		},
	} {
		store.addProduct(product)
	}
	return nil
}
