package errors

import "errors"

// ErrorCode classifies a failure for display purposes.
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeConfig
	ErrCodeAuth
	ErrCodeRateLimit
	ErrCodeTimeout
	ErrCodeNetwork
	ErrCodeProvider
	ErrCodeParse
)

// String returns a short human-readable name for the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeConfig:
		return "configuration"
	case ErrCodeAuth:
		return "authentication"
	case ErrCodeRateLimit:
		return "rate limit"
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeNetwork:
		return "network"
	case ErrCodeProvider:
		return "provider"
	case ErrCodeParse:
		return "parse"
	default:
		return "unknown"
	}
}

// GetErrorCode extracts the classification of err, walking wrapped errors.
func GetErrorCode(err error) ErrorCode {
	switch {
	case err == nil:
		return ErrCodeUnknown
	case IsConfigError(err):
		return ErrCodeConfig
	case IsAuthError(err):
		return ErrCodeAuth
	case IsRateLimitError(err):
		return ErrCodeRateLimit
	case IsTimeoutError(err):
		return ErrCodeTimeout
	case IsNetworkError(err):
		return ErrCodeNetwork
	case isParseError(err):
		return ErrCodeParse
	case isAPIError(err):
		return ErrCodeProvider
	default:
		return ErrCodeUnknown
	}
}

// GetHTTPStatus returns the HTTP status attached to err, or 0 if none.
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint attached to err, or "" if none.
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	return ""
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr) || errors.Is(err, ErrNoToken)
}

// IsAuthError reports whether err is an authentication failure.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) || errors.Is(err, ErrAuthFailed)
}

// IsRateLimitError reports whether err is a provider rate limit.
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

// IsTimeoutError reports whether err is a request timeout.
func IsTimeoutError(err error) bool {
	var toErr *TimeoutError
	return errors.As(err, &toErr)
}

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

func isAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

func isParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
