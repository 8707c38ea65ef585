package domain

// Credential is one entry of the demo credential table.
type Credential struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Role     Role   `koanf:"role"`
}
