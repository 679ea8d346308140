package errors

// Error is a string typed error so that sentinel errors can be declared as constants.
type Error string

func (e Error) Error() string {
	return string(e)
}
