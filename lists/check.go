package lists

import (
	"errors"
	"strings"
)

// Check verifies the list structure of src: lists never open directly inside lists, items only
// open directly inside lists, every closing tag matches the innermost open element of its role
// and name (case-insensitively), and nothing is left open. Any fragment returned by Repair
// passes.
//
// The returned error joins a *StructureError for every offending tag.
func Check(src string) error {
	var (
		errs  []error
		stack []Token
	)

	fail := func(tok Token, err error) {
		errs = append(errs, newStructureError(src, tok, err))
	}

	for tok := range Tokens(src) {
		top := Token{}
		if len(stack) > 0 {
			top = stack[len(stack)-1]
		}

		switch tok.Kind {
		case ListOpen:
			if top.Kind == ListOpen {
				fail(tok, ErrListInList)
			}
			stack = append(stack, tok)
		case ItemOpen:
			if top.Kind != ListOpen {
				fail(tok, ErrItemOutsideList)
			}
			stack = append(stack, tok)
		case ItemClose:
			if top.Kind != ItemOpen {
				fail(tok, ErrUnmatchedClose)
				continue
			}
			stack = stack[:len(stack)-1]
		case ListClose:
			if top.Kind != ListOpen || !strings.EqualFold(top.Name, tok.Name) {
				fail(tok, ErrUnmatchedClose)
				continue
			}
			stack = stack[:len(stack)-1]
		}
	}

	for _, tok := range stack {
		fail(tok, ErrUnclosed)
	}

	return errors.Join(errs...)
}
