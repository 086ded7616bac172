package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/repotrack/repotrack/internal/contracts"
)

// Dependencies contains required dependencies for the Daemon.
// NewDependencies should be used to create instances of Dependencies.
type Dependencies struct {
	// APIAddr specifies the network address for the APIServer to bind (e.g., "0.0.0.0:8090").
	APIAddr string

	// Collections serves the collection operations exposed by the API.
	Collections contracts.CollectionManager

	// Logger for daemon and subcomponent (API server) operations.
	Logger hclog.Logger
}

// NewDependencies creates validated Dependencies.
func NewDependencies(logger hclog.Logger, apiAddr string, collections contracts.CollectionManager) (Dependencies, error) {
	deps := Dependencies{
		APIAddr:     apiAddr,
		Collections: collections,
		Logger:      logger,
	}

	if err := deps.Validate(); err != nil {
		return Dependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d Dependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}

	if err := validateAddr(d.APIAddr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.APIAddr, err)
	}

	if d.Collections == nil || reflect.ValueOf(d.Collections).IsNil() {
		return fmt.Errorf("collection manager cannot be nil")
	}

	return nil
}
