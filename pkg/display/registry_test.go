package display

import (
	"fmt"
	"testing"
)

// altHandler is a distinct handler type for registry tests
type altHandler struct {
	*ImagingHandler
}

func newAltHandler() ImageHandler {
	return &altHandler{ImagingHandler: NewImagingHandler()}
}

func TestResolveRegisteredKey(t *testing.T) {
	RegisterHandler("ALT", newAltHandler)

	factory := ResolveHandler("ALT")
	if _, ok := factory().(*altHandler); !ok {
		t.Errorf("ResolveHandler(\"ALT\") produced %T, want *altHandler", factory())
	}
}

func TestResolveUnknownKeyFallsBackToDefault(t *testing.T) {
	// Unknown keys deterministically degrade to the default handler
	for i := 0; i < 3; i++ {
		factory := ResolveHandler("not-a-registered-key")
		if factory == nil {
			t.Fatal("ResolveHandler returned nil factory")
		}
		if _, ok := factory().(*ImagingHandler); !ok {
			t.Errorf("call %d: unknown key resolved to %T, want *ImagingHandler", i, factory())
		}
	}
}

func TestResolveAcceptsFactoryDirectly(t *testing.T) {
	factory := ResolveHandler(HandlerFactory(newAltHandler))
	if _, ok := factory().(*altHandler); !ok {
		t.Errorf("ResolveHandler(factory) produced %T, want *altHandler", factory())
	}

	// A bare func() ImageHandler works too
	factory = ResolveHandler(newAltHandler)
	if _, ok := factory().(*altHandler); !ok {
		t.Errorf("ResolveHandler(func) produced %T, want *altHandler", factory())
	}
}

func TestResolveNilFallsBackToDefault(t *testing.T) {
	factory := ResolveHandler(nil)
	if _, ok := factory().(*ImagingHandler); !ok {
		t.Errorf("ResolveHandler(nil) produced %T, want *ImagingHandler", factory())
	}
}

func TestLastRegistrationWins(t *testing.T) {
	key := "swap-test"

	RegisterHandler(key, func() ImageHandler { return NewImagingHandler() })
	RegisterHandler(key, newAltHandler)

	factory := ResolveHandler(key)
	if _, ok := factory().(*altHandler); !ok {
		t.Errorf("after re-registration, %q resolved to %T, want *altHandler", key, factory())
	}
}

func ExampleRegisterHandler() {
	RegisterHandler("demo", func() ImageHandler { return NewImagingHandler() })
	factory := ResolveHandler("demo")
	fmt.Printf("%T\n", factory())
	// Output: *display.ImagingHandler
}
