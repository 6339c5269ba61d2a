package generator

import (
	"github.com/erraggy/smithygen/scaffold"
)

// validatorsBody declares Validate on every structure of the namespace.
func (e *emitter) validatorsBody() (string, bool, error) {
	if len(e.structs) == 0 {
		return "", false, nil
	}
	body, err := scaffold.Validators(e.mapper, e.structs)
	if err != nil {
		return "", false, err
	}
	return body, true, nil
}

// testBody writes one test per operation, run against the generated mock
// unless the package reassigns the service hook.
func (e *emitter) testBody() (string, bool, error) {
	if len(e.services) == 0 {
		return "", false, nil
	}
	services := make([]scaffold.Service, len(e.services))
	for i, si := range e.services {
		services[i] = scaffold.Service{
			Interface:  si.name,
			Default:    "New" + mockName(si.name) + "()",
			Operations: si.ops,
		}
	}
	body, err := scaffold.TestStubs(e.mapper, e.mocks, services)
	if err != nil {
		return "", false, err
	}
	return body, true, nil
}
