package address

// IValidator turns a user supplied address into its canonical form.
type IValidator interface {
	Validate(address string) (string, error)
}
