package messaging

import "fmt"

// DeliveryError covers invalid recipients, gateway rejection, and network
// failure on an outbound send. The caller decides whether to retry, drop, or
// alert; the sender itself attempts delivery at most once.
type DeliveryError struct {
	To  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("messaging: delivery to %s failed: %v", e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
