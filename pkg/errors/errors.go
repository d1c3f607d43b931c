package errors

const (
	CodeConfigNotFound   = "CONFIG_NOT_FOUND"
	CodeAlreadyInstalled = "ALREADY_INSTALLED"
	CodeChecksumMismatch = "CHECKSUM_MISMATCH"
)

// Types ////////////////////////////////////////

type CodedError interface {
	Code() string
}

type codedError struct {
	code string
	msg  string
}

func (e *codedError) Error() string {
	return e.msg
}

func (e *codedError) Code() string {
	return e.code
}

// Error Creators ///////////////////////////////

// The galaxy.yml manifest was not found
func ConfigNotFound(msg string) error {
	return &codedError{
		code: CodeConfigNotFound,
		msg:  msg,
	}
}

// The collection is already installed at the destination
func AlreadyInstalled(msg string) error {
	return &codedError{
		code: CodeAlreadyInstalled,
		msg:  msg,
	}
}

// A file's digest does not match the one recorded in the archive manifest
func ChecksumMismatch(msg string) error {
	return &codedError{
		code: CodeChecksumMismatch,
		msg:  msg,
	}
}

// Helpers //////////////////////////////////////

func IsConfigNotFound(err error) bool {
	return Code(err) == CodeConfigNotFound
}

func IsAlreadyInstalled(err error) bool {
	return Code(err) == CodeAlreadyInstalled
}

func IsChecksumMismatch(err error) bool {
	return Code(err) == CodeChecksumMismatch
}

// Return the error code, or the empty string
func Code(err error) string {
	if cerr, ok := err.(CodedError); ok {
		return cerr.Code()
	}

	return ""
}
