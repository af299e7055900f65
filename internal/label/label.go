// agent/internal/label/label.go

// Package label renders a refill request into ZPL for the Zebra GK420d.
//
// The stock is 2" x 3.25" at 203 dpi and is read landscape (3.25" wide,
// 2" tall), but the printer feeds it portrait: the 2" edge runs across the
// print head. Layout is therefore declared in a visual coordinate space
// (origin at the top-left of the label as a person reads it), and every
// element goes through one rotation transform into the printer's native
// space. Editing the layout means editing the table, never the math.
package label

import (
	"fmt"
	"strings"
	"time"
)

// Content carries the request fields printed on the label. CreatedAt is the
// raw ISO-8601 string off the wire; parsing failures fall back to the
// current local time because a label must never fail to render.
type Content struct {
	RxNumber    string
	StoreID     string
	RequestID   string
	PatientName string
	CreatedAt   string
}

// Stock describes one physical label size, in printer dots at 203 dpi.
type Stock struct {
	WidthDots  int // across the print head
	LengthDots int // along the feed direction
	Darkness   int // ~SD darkness setting
}

// Stock2x3 is the Cosentino's 2" x 3.25" label stock.
var Stock2x3 = Stock{WidthDots: 406, LengthDots: 659, Darkness: 25}

type elementKind int

const (
	kindText elementKind = iota
	kindRule
	kindBarcode
)

type slot int

const (
	slotTitle slot = iota
	slotRx
	slotStore
	slotPatient
	slotSubmitted
	slotRef
	slotInstruction
)

// element is one entry of the visual layout table. x,y is the top-left
// corner in visual space; size is the font height for text, the bar height
// for the barcode and the line thickness for a rule; length is a rule's
// extent along visual x.
type element struct {
	kind   elementKind
	slot   slot
	x, y   int
	size   int
	length int
}

// Layout binds a stock to the visual placement of every label element.
// A different stock only needs a different table here.
type Layout struct {
	Stock    Stock
	Elements []element
}

// Default lays the request fields down the left of the label with the
// Code 128 barcode along the right edge.
var Default = Layout{
	Stock: Stock2x3,
	Elements: []element{
		{kind: kindText, slot: slotTitle, x: 20, y: 14, size: 36},
		{kind: kindText, slot: slotRx, x: 20, y: 62, size: 64},
		{kind: kindText, slot: slotStore, x: 20, y: 148, size: 28},
		{kind: kindText, slot: slotPatient, x: 20, y: 184, size: 28},
		{kind: kindText, slot: slotSubmitted, x: 20, y: 230, size: 22},
		{kind: kindText, slot: slotRef, x: 20, y: 260, size: 22},
		{kind: kindRule, x: 20, y: 296, size: 2, length: 400},
		{kind: kindText, slot: slotInstruction, x: 20, y: 312, size: 24},
		{kind: kindBarcode, x: 430, y: 40, size: 80},
	},
}

// rotate maps a visual coordinate into the printer's native space. The
// visual x axis runs along the feed (native y); the visual y axis runs
// back up the print head, so the element's extent across the head has to
// be reflected off the stock width.
func rotate(st Stock, vx, vy, extent int) (nx, ny int) {
	return st.WidthDots - vy - extent, vx
}

// Render produces the ZPL byte stream for one request on the default
// layout. Output is deterministic for identical content.
func Render(c Content) []byte {
	return Default.Render(c)
}

func (l Layout) Render(c Content) []byte {
	var b strings.Builder

	b.WriteString("^XA\n")
	fmt.Fprintf(&b, "^PW%d\n", l.Stock.WidthDots)
	fmt.Fprintf(&b, "^LL%d\n", l.Stock.LengthDots)
	fmt.Fprintf(&b, "~SD%d\n", l.Stock.Darkness)

	for _, el := range l.Elements {
		switch el.kind {
		case kindText:
			text := c.textFor(el.slot)
			if text == "" {
				continue
			}
			nx, ny := rotate(l.Stock, el.x, el.y, el.size)
			fmt.Fprintf(&b, "^FO%d,%d^A0R,%d,%d^FD%s^FS\n", nx, ny, el.size, el.size, text)
		case kindRule:
			nx, ny := rotate(l.Stock, el.x, el.y, el.size)
			fmt.Fprintf(&b, "^FO%d,%d^GB%d,%d,%d^FS\n", nx, ny, el.size, el.length, el.size)
		case kindBarcode:
			nx, ny := rotate(l.Stock, el.x, el.y, el.size)
			fmt.Fprintf(&b, "^FO%d,%d^BY2,2,%d^BCR,%d,Y,N,N^FD%s^FS\n", nx, ny, el.size, el.size, c.RxNumber)
		}
	}

	b.WriteString("^XZ")
	return []byte(b.String())
}

func (c Content) textFor(s slot) string {
	switch s {
	case slotTitle:
		return "*** REFILL REQUEST ***"
	case slotRx:
		return "Rx# " + c.RxNumber
	case slotStore:
		return "Store: " + c.StoreID
	case slotPatient:
		if c.PatientName == "" {
			return ""
		}
		return "Name: " + c.PatientName
	case slotSubmitted:
		return "Submitted: " + formatTimestamp(c.CreatedAt)
	case slotRef:
		return "Ref: " + c.RequestID
	case slotInstruction:
		return "Please pull and process."
	}
	return ""
}

func formatTimestamp(raw string) string {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		t = time.Now()
	} else {
		t = t.Local()
	}
	return t.Format("01/02/2006 03:04 PM")
}
