package password

// Hasher adapts the package functions to the interface consumed by the
// auth service.
type Hasher struct{}

func NewHasher() *Hasher {
	return &Hasher{}
}

func (*Hasher) Hash(password string) (string, error) {
	return Hash(password)
}

func (*Hasher) Verify(hash, password string) bool {
	return Verify(hash, password)
}
