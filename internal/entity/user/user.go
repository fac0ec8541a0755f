package user

type Record struct {
	ID           int64
	Email        string
	PasswordHash string
}
