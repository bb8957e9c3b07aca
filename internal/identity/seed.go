package identity

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	user     User
	password string
}

// SeedDemoUsers loads the demo directory into the store. Passwords are
// bcrypt-hashed at seed time; seeding an already-populated store is a no-op.
func SeedDemoUsers(ctx context.Context, store UserStore) error {
	existing, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	seeds := []seedUser{
		{
			user: User{
				ID:          "u-hr-001",
				Username:    "hr_admin",
				FullName:    "Avery Jordan",
				Role:        RoleHR,
				TeamMembers: []string{"u-mgr-001", "u-emp-001", "u-emp-002"},
				GDPRConsent: true,
				Active:      true,
			},
			password: "hr123",
		},
		{
			user: User{
				ID:          "u-mgr-001",
				Username:    "mgr_jane",
				FullName:    "Jane Rivera",
				Role:        RoleManager,
				ManagerID:   "u-hr-001",
				TeamMembers: []string{"u-emp-001", "u-emp-002"},
				GDPRConsent: true,
				Active:      true,
			},
			password: "manager123",
		},
		{
			user: User{
				ID:          "u-emp-001",
				Username:    "emp_alex",
				FullName:    "Alex Kim",
				Role:        RoleEmployee,
				ManagerID:   "u-mgr-001",
				GDPRConsent: true,
				Active:      true,
			},
			password: "employee123",
		},
		{
			user: User{
				ID:          "u-emp-002",
				Username:    "emp_sam",
				FullName:    "Sam Patel",
				Role:        RoleEmployee,
				ManagerID:   "u-mgr-001",
				GDPRConsent: true,
				Active:      true,
			},
			password: "employee456",
		},
	}

	for _, seed := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password for %s: %w", seed.user.Username, err)
		}
		seed.user.PasswordHash = string(hash)
		if err := store.Save(ctx, seed.user); err != nil {
			return fmt.Errorf("seed user %s: %w", seed.user.Username, err)
		}
	}
	return nil
}
