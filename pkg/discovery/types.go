package discovery

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// mDNS service constants.
const (
	// ServiceType is the mDNS service type YNCA receivers advertise.
	ServiceType = "_yamaha-ynca._tcp"

	// Domain is the mDNS domain.
	Domain = "local"

	// DefaultPort is the control port assumed when the advertisement
	// does not carry one.
	DefaultPort = 50000

	// BrowseTimeout is the default timeout for Find.
	BrowseTimeout = 10 * time.Second
)

// Discovery errors.
var (
	// ErrNotFound indicates no receiver was discovered in time.
	ErrNotFound = errors.New("no receiver found")
)

// ReceiverService describes one advertised receiver.
type ReceiverService struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Host is the advertised hostname.
	Host string

	// Addresses holds the receiver's IP addresses, aggregated across
	// interfaces.
	Addresses []string

	// Port is the YNCA control port.
	Port uint16

	// Model is the device model from the TXT record, if advertised.
	Model string
}

// Address returns a dialable "host:port" for the receiver, preferring
// the first raw address over the hostname.
func (s *ReceiverService) Address() string {
	host := s.Host
	if len(s.Addresses) > 0 {
		host = s.Addresses[0]
	}
	return fmt.Sprintf("%s:%d", host, s.Port)
}

// parseTXT extracts the known TXT keys (model, port).
func parseTXT(records []string, svc *ReceiverService) {
	for _, record := range records {
		switch {
		case len(record) > 6 && record[:6] == "model=":
			svc.Model = record[6:]
		case len(record) > 5 && record[:5] == "port=":
			if port, err := strconv.ParseUint(record[5:], 10, 16); err == nil {
				svc.Port = uint16(port)
			}
		}
	}
}
