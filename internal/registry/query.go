package registry

import (
	"github.com/dpshade/uberfile/internal/errors"
	"github.com/dpshade/uberfile/internal/models"
)

// OSListing groups the command types available for one operating system
type OSListing struct {
	OS           models.OperatingSystem
	CommandTypes []string
}

// Candidates returns the sorted command types offered for (os, protocol),
// failing with NoCommandsAvailable when there are none.
func (r *Registry) Candidates(os models.OperatingSystem, protocol models.Protocol) ([]string, error) {
	types := r.CommandTypes(os, protocol)
	if len(types) == 0 {
		return nil, errors.NoCommandsAvailableError(string(protocol), string(os))
	}
	return types, nil
}

// Lookup returns the renderable templates for (os, commandType, protocol),
// failing with NoCommandsForType when there are none.
func (r *Registry) Lookup(os models.OperatingSystem, commandType string, protocol models.Protocol) ([]models.Template, error) {
	templates := r.Commands(os, commandType, protocol)
	if len(templates) == 0 {
		return nil, errors.NoCommandsForTypeError(commandType, string(protocol))
	}
	return templates, nil
}

// Listing returns all command types per operating system, windows first
func (r *Registry) Listing() []OSListing {
	listing := make([]OSListing, 0, len(models.OperatingSystems))
	for _, os := range models.OperatingSystems {
		listing = append(listing, OSListing{
			OS:           os,
			CommandTypes: r.AllCommandTypes(os),
		})
	}
	return listing
}
