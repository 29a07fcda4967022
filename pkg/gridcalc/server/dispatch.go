package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/ukaji3/gridcalc-go/pkg/gridcalc"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/address"
	"github.com/ukaji3/gridcalc-go/pkg/gridcalc/models"
)

// handle applies one request to the session's workbook.
func (s *session) handle(ctx context.Context, req Request) (resp Response) {
	resp = Response{ID: req.ID, Type: req.Type}
	wb := s.wb

	fail := func(err error) Response {
		return Response{ID: req.ID, Type: TypeError, Error: fmt.Sprintf("%s: %v", req.Type, err)}
	}

	switch req.Type {
	case TypeSet:
		updated, err := wb.SetCell(req.Address, req.Input)
		if err != nil {
			return fail(err)
		}
		s.changed(&resp, updated)

	case TypeSelect:
		content, err := wb.Select(req.Address)
		if err != nil {
			return fail(err)
		}
		resp.Content = &content

	case TypeSelectRange:
		r, err := req.target()
		if err != nil {
			return fail(err)
		}
		if r == nil {
			return fail(gridcalc.ErrNoRange)
		}
		if err := wb.SelectRange(*r); err != nil {
			return fail(err)
		}
		stats := wb.RangeStats(*r)
		resp.Stats = &stats

	case TypeStats:
		r, err := req.target()
		if err != nil {
			return fail(err)
		}
		if r == nil {
			sel, ok := wb.Selection()
			if !ok {
				return fail(gridcalc.ErrNoRange)
			}
			r = &sel
		}
		stats := wb.RangeStats(*r)
		resp.Stats = &stats

	case TypeStyle:
		if req.Style == nil {
			return fail(fmt.Errorf("missing style"))
		}
		if err := wb.SetStyle(req.Address, *req.Style); err != nil {
			return fail(err)
		}
		s.changed(&resp, []string{strings.ToUpper(req.Address)})

	case TypeFindReplace:
		n, err := wb.FindReplace(req.Find, req.Replace)
		if err != nil {
			return fail(err)
		}
		resp.Count = n
		s.snapshot(&resp)

	case TypeDedup:
		r, err := req.target()
		if err != nil {
			return fail(err)
		}
		var n int
		if r != nil {
			n, err = wb.RemoveDuplicates(*r)
		} else {
			n, err = wb.RemoveDuplicatesInSelection()
		}
		if err != nil {
			return fail(err)
		}
		resp.Count = n
		s.snapshot(&resp)

	case TypeInsertRow, TypeDeleteRow, TypeInsertColumn, TypeDeleteColumn:
		edit := map[string]func(int) error{
			TypeInsertRow:    wb.InsertRow,
			TypeDeleteRow:    wb.DeleteRow,
			TypeInsertColumn: wb.InsertColumn,
			TypeDeleteColumn: wb.DeleteColumn,
		}[req.Type]
		if err := edit(req.Index); err != nil {
			return fail(err)
		}
		s.snapshot(&resp)

	case TypeCopy:
		if err := wb.Copy(); err != nil {
			return fail(err)
		}

	case TypeCut, TypePaste:
		op := wb.Paste
		if req.Type == TypeCut {
			op = wb.Cut
		}
		updated, err := op()
		if err != nil {
			return fail(err)
		}
		s.changed(&resp, updated)

	case TypeSave:
		saved, err := wb.SaveSheet(ctx, req.Name)
		if err != nil {
			return fail(err)
		}
		saved.Cells = nil
		resp.Saved = &saved

	case TypeLoad:
		if _, err := wb.LoadSheet(ctx, req.SheetID); err != nil {
			return fail(err)
		}
		s.snapshot(&resp)

	case TypeList:
		sheets, err := wb.SavedSheets(ctx)
		if err != nil {
			return fail(err)
		}
		resp.Sheets = sheets
		resp.Count = len(sheets)

	case TypeSnapshot:
		s.snapshot(&resp)

	case TypeResize:
		var err error
		switch req.Axis {
		case "column":
			err = wb.SetColumnWidth(req.Index, req.Size)
		case "row":
			err = wb.SetRowHeight(req.Index, req.Size)
		default:
			err = fmt.Errorf("unknown axis %q", req.Axis)
		}
		if err != nil {
			return fail(err)
		}
		layout := wb.Layout()
		resp.Layout = &layout

	default:
		return fail(fmt.Errorf("unknown request type %q", req.Type))
	}
	return resp
}

// changed fills resp with the current state of the given addresses.
func (s *session) changed(resp *Response, addrs []string) {
	for _, addr := range addrs {
		cell, ok := s.wb.Cell(addr)
		if !ok {
			resp.Removed = append(resp.Removed, addr)
			continue
		}
		if resp.Cells == nil {
			resp.Cells = make(map[string]models.Cell)
		}
		resp.Cells[addr] = cell
	}
}

func (s *session) snapshot(resp *Response) {
	resp.Sheet = s.wb.Sheet()
	layout := s.wb.Layout()
	resp.Layout = &layout
}

// target returns the range named by Range or Ref, or nil when neither is set.
func (req Request) target() (*models.Range, error) {
	if req.Range != nil {
		return req.Range, nil
	}
	if req.Ref == "" {
		return nil, nil
	}
	r, err := address.ParseRange(req.Ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gridcalc.ErrInvalidAddress, err)
	}
	return &r, nil
}
