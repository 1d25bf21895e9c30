// Package hashing — bcrypt-хеширование паролей покупателей.
package hashing

import "golang.org/x/crypto/bcrypt"

// Bcrypt — хешер с фиксированной стоимостью. Стоимость вне допустимого
// диапазона bcrypt заменяется DefaultCost: конфиг не может ослабить хеш.
type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Compare сверяет пароль с хешем. Причина несовпадения наружу не отдаётся:
// для вызывающего неверный пароль и повреждённый хеш неразличимы.
func (b *Bcrypt) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
