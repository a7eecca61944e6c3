package user

// User represents a user record as listed by the remote user source.
type User struct {
	ID      int64   // ID is the unique, stable identifier for the user
	Name    string  // Name is the full name of the user
	Email   string  // Email is the contact address of the user
	Company Company // Company the user works for
	Address Address // Address of the user
}

// Company holds the display fields of a user's employer.
type Company struct {
	Name string
}

// Address holds the display fields of a user's address.
type Address struct {
	City string
}
