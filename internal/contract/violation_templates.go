package contract

import (
	"fmt"

	directive "github.com/hanpama/contractgraph/internal/directive"
	language "github.com/hanpama/contractgraph/internal/language"
)

// Common reusable violation constructors (template helpers)
// NOTE: Keep messages stable to avoid breaking snapshot tests.

func violationAnnotation(err error) *Violation {
	if perr, ok := err.(*directive.ParseError); ok {
		return violationWithPosition(perr.Message, perr.Position)
	}
	return &Violation{Message: err.Error()}
}

func violationReservedNamePrefix(kind, name string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("%s name %q cannot start with '__' (reserved prefix)", kind, name),
		pos,
	)
}

func violationInvalidReceiver(method string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("method %q receiver can only be a shared reference `&self`", method),
		pos,
	)
}

func violationMissingReceiver(method string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("method %q should have a shared reference receiver `&self`", method),
		pos,
	)
}

func violationDowncastResult(method string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("downcast method %q must return `Option<&ImplementerType>` only", method),
		pos,
	)
}

func violationDowncastReceiver(method string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("downcast method %q must accept `&self` only and, optionally, `&Context`", method),
		pos,
	)
}

func violationAsyncDowncast(method string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("async downcast method %q to a contract implementer is not supported", method),
		pos,
	)
}

func violationNonImplementerDowncast(pos *language.Position) *Violation {
	return violationWithPosition(
		"downcasting is possible only to declared implementers",
		pos,
	)
}

func violationDuplicateDowncast(method, externalFunc, implementer string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf(
			"downcast method %q conflicts with the external downcast function %q declared for implementer type %q; use @ignore to drop the method",
			method, externalFunc, implementer,
		),
		pos,
	)
}

func violationDuplicateDowncastMethods(method, existing, implementer string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf(
			"downcast method %q conflicts with downcast method %q already bound for implementer type %q",
			method, existing, implementer,
		),
		pos,
	)
}

func violationDisallowedArgumentDirective(name string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("directive @%s is not allowed on a context or executor argument", name),
		pos,
	)
}

func violationMalformedArgumentPattern(pattern, method string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("argument pattern %q of method %q must be a single identifier; use @name to supply an explicit argument name", pattern, method),
		pos,
	)
}

func violationDuplicateSpecialArgument(kind, method string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("method %q declares more than one %s argument", method, kind),
		pos,
	)
}

func violationDuplicateField(fieldName, contract string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Duplicate field %q found in contract %q", fieldName, contract),
		pos,
	)
}
