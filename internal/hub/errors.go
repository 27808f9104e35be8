package hub

import (
	"errors"
	"fmt"

	"github.com/egoavara/plughub/internal/plugintype"
)

// ErrCatalogUnavailable is matched by every error FetchIndex returns
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// CatalogUnavailableError reports that the index for one plugin type could not be retrieved
type CatalogUnavailableError struct {
	Type plugintype.Type
	Err  error
}

func (e *CatalogUnavailableError) Error() string {
	return fmt.Sprintf("can not retrieve %s from the hub: %s", e.Type.Plural(), e.Err)
}

func (e *CatalogUnavailableError) Unwrap() error {
	return e.Err
}

func (e *CatalogUnavailableError) Is(target error) bool {
	return target == ErrCatalogUnavailable
}
