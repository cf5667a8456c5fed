package domain

import (
	"fmt"

	"github.com/gabrieldeltasollutions/aws-office/internal/entities"
)

func (u *Usecase) sealAll(fields ...*string) error {
	for _, f := range fields {
		sealed, err := u.sealer.Seal(*f)
		if err != nil {
			return fmt.Errorf("seal credential: %w", err)
		}
		*f = sealed
	}
	return nil
}

func (u *Usecase) openAll(fields ...*string) error {
	for _, f := range fields {
		plain, err := u.sealer.Open(*f)
		if err != nil {
			return fmt.Errorf("open credential: %w", err)
		}
		*f = plain
	}
	return nil
}

func (u *Usecase) sealUser(usr *entities.User) error {
	return u.sealAll(&usr.Password, &usr.DefaultPassword)
}

// openLicense returns a copy of l with every credential field decrypted.
func (u *Usecase) openLicense(l *entities.License) (*entities.License, error) {
	res := l.Clone()
	if err := u.openAll(&res.ActivationPassword, &res.DefaultPassword); err != nil {
		return nil, err
	}
	for i := range res.Users {
		if err := u.openAll(&res.Users[i].Password, &res.Users[i].DefaultPassword); err != nil {
			return nil, err
		}
	}
	return &res, nil
}
