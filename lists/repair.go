package lists

import "strings"

// A repairer runs the list repair rules over the token stream of one fragment. It keeps the stack
// of open frames: the bottom frame is always a list, and frames alternate list/item upwards
// because an item never opens directly inside an item and a list never opens directly inside a
// list.
type repairer struct {
	// out is the resolved output.
	out output
	// stack holds the open frames, innermost last.
	stack []*frame
	// fixes records every change made to the source.
	fixes []Fix
}

func (r *repairer) top() *frame {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

func (r *repairer) push(f *frame) {
	r.stack = append(r.stack, f)
}

func (r *repairer) pop() *frame {
	if len(r.stack) == 0 {
		panic("lists: pop from empty frame stack")
	}
	f := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	return f
}

func (r *repairer) fix(a Action, tag string, offset int, reason string) {
	r.fixes = append(r.fixes, Fix{Action: a, Tag: tag, Offset: offset, Reason: reason})
}

// process applies the repair rules for one token.
func (r *repairer) process(tok Token) {
	switch tok.Kind {
	case ItemOpen:
		r.itemOpen(tok)
	case ItemClose:
		r.itemClose(tok)
	case ListOpen:
		r.listOpen(tok)
	case ListClose:
		r.listClose(tok)
	default:
		r.other(tok)
	}
}

func (r *repairer) itemOpen(tok Token) {
	if f := r.top(); f != nil && f.isItem() {
		r.autoClose(tok.Offset)
	}
	if len(r.stack) == 0 {
		r.push(newOrphanList(r.out.len(), tok.Offset))
	}
	r.push(newItem(tok.Name, r.out.append(tok.Raw), tok.Offset))
}

func (r *repairer) itemClose(tok Token) {
	f := r.top()
	switch {
	case f == nil:
		r.fix(Drop, tok.Raw, tok.Offset, ReasonStrayClose)
	case f.isItem():
		r.pop()
		r.closeItem(f, tok.Raw, tok.Offset, false)
	case r.out.blank(f.boundary):
		r.fix(Drop, tok.Raw, tok.Offset, ReasonStrayClose)
	default:
		// Content since the last item becomes an item of its own, opened with the spelling of
		// the close tag.
		open := "<" + tok.Name + ">"
		r.out.insert(f.boundary, open)
		r.fix(Insert, open, tok.Offset, ReasonMissingOpen)
		r.out.append(tok.Raw)
		f.items++
		f.boundary = r.out.len()
	}
}

func (r *repairer) listOpen(tok Token) {
	if f := r.top(); f != nil && f.isList() {
		it := newItem("li", r.out.append("<li>"), tok.Offset)
		it.synthetic = true
		r.push(it)
	}
	r.push(newList(tok.Name, r.out.append(tok.Raw), tok.Offset))
}

func (r *repairer) listClose(tok Token) {
	if len(r.stack) == 0 {
		r.fix(Drop, tok.Raw, tok.Offset, ReasonStrayClose)
		return
	}
	if r.top().isItem() {
		r.autoClose(tok.Offset)
	}

	l := r.pop()
	switch {
	case l.orphan:
		// A close tag ending an orphan run names the wrapper and serves as its closing tag.
		l.name = tok.Name
		if !r.closeList(l, tok.Raw, false, tok.Offset) {
			r.fix(Drop, tok.Raw, tok.Offset, ReasonStrayClose)
		}
	case strings.EqualFold(l.name, tok.Name):
		closeTag := "</" + l.name + tok.Raw[2+len(tok.Name):]
		if !r.closeList(l, closeTag, false, tok.Offset) {
			r.fix(Drop, tok.Raw, tok.Offset, ReasonEmptyList)
		} else if closeTag != tok.Raw {
			r.fix(Rewrite, closeTag, tok.Offset, ReasonCaseMismatch)
		}
	default:
		r.fix(Drop, tok.Raw, tok.Offset, ReasonMismatchedClose)
		if r.closeList(l, l.closeTag(), true, tok.Offset) {
			r.fix(Insert, l.closeTag(), tok.Offset, ReasonMismatchedClose)
		}
	}
}

func (r *repairer) other(tok Token) {
	// Content that is not whitespace ends an orphan run.
	if f := r.top(); f != nil && f.orphan && !isBlank(tok.Raw) {
		r.pop()
		r.forceClose(f, tok.Offset)
	}
	r.out.append(tok.Raw)
}

// finish resolves every frame still open at the end of input, innermost first. Unclosed items
// lose their opening tag; unclosed lists are closed after their last completed item.
func (r *repairer) finish(offset int) {
	for len(r.stack) > 0 {
		f := r.pop()
		if f.isList() {
			r.forceClose(f, offset)
			continue
		}
		r.out.drop(f.open)
		if !f.synthetic {
			r.fix(Drop, r.out.text(f.open), f.offset, ReasonUnclosedItem)
		}
	}
}

// autoClose closes the item on top of the stack in front of the token at offset.
func (r *repairer) autoClose(offset int) {
	f := r.pop()
	r.closeItem(f, f.closeTag(), offset, true)
}

// closeItem resolves a popped item with closeTag, which is either the source close tag or, with
// inserted set, a synthesized one. Items with a whitespace-only interior are elided.
func (r *repairer) closeItem(f *frame, closeTag string, offset int, inserted bool) {
	l := r.top()
	if l == nil || !l.isList() {
		panic("lists: item closed outside a list")
	}

	if r.out.blank(f.start) {
		r.out.drop(f.open)
		if !f.synthetic {
			r.fix(Drop, r.out.text(f.open), f.offset, ReasonEmptyItem)
		}
		if !inserted {
			r.fix(Drop, closeTag, offset, ReasonEmptyItem)
		}
		return
	}

	if f.synthetic {
		r.fix(Insert, f.openTag(), f.offset, ReasonNestedList)
	}
	r.out.append(closeTag)
	if inserted {
		r.fix(Insert, closeTag, offset, ReasonUnclosedItem)
	}
	l.items++
	l.boundary = r.out.len()
}

// closeList resolves a popped list. The closing tag is appended, or with atBoundary inserted right
// after the last completed item so that trailing content stays outside the list. An orphan
// wrapper gets its opening tag at the start of the run. A list without items is elided; the
// result reports whether the list was kept.
func (r *repairer) closeList(l *frame, closeTag string, atBoundary bool, offset int) bool {
	if l.items == 0 {
		if !l.orphan {
			r.out.drop(l.open)
			r.fix(Drop, r.out.text(l.open), l.offset, ReasonEmptyList)
		}
		return false
	}

	if atBoundary {
		r.out.insert(l.boundary, closeTag)
	} else {
		r.out.append(closeTag)
	}

	if l.orphan {
		r.out.insert(l.start, l.openTag())
		r.fix(Insert, l.openTag(), l.offset, ReasonOrphanItems)
	}
	return true
}

// forceClose closes a list that has no closing tag of its own.
func (r *repairer) forceClose(l *frame, offset int) {
	reason := ReasonUnclosedList
	if l.orphan {
		reason = ReasonOrphanItems
	}
	if r.closeList(l, l.closeTag(), true, offset) {
		r.fix(Insert, l.closeTag(), offset, reason)
	}
}
