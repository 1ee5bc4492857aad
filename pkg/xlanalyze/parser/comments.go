package parser

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/container"
	"github.com/hosaka9/xlanalyze-go/pkg/xlanalyze/models"
)

// ExtractComments collects classic notes and threaded comments. Threaded
// comments are grouped into root records with their reply chain attached;
// a classic note that shadows a threaded comment anchor is suppressed, which
// matches how the threaded format stores its placeholder notes.
func ExtractComments(ctx context.Context, f *excelize.File, c *container.Container) ([]models.CommentInfo, []models.Diagnostic, error) {
	var out []models.CommentInfo
	var diags []models.Diagnostic

	persons := personNames(c)
	threadedCells := make(map[string]bool)

	decls, err := SheetDecls(c)
	if err != nil {
		return nil, nil, err
	}
	for _, decl := range decls {
		if err := ctx.Err(); err != nil {
			return out, diags, err
		}
		if decl.Part == "" {
			continue
		}
		rels, err := c.Relationships(decl.Part)
		if err != nil {
			continue
		}
		for _, rel := range rels {
			if !strings.Contains(rel.Type, "threadedComment") {
				continue
			}
			part := container.ResolveTarget(decl.Part, rel.Target)
			threaded, parseErr := parseThreadedComments(c, part, decl.Name, persons)
			if parseErr != nil {
				diags = append(diags, errDiag("comments", "threaded comments for sheet "+decl.Name+" unreadable", parseErr))
				continue
			}
			for _, cm := range threaded {
				threadedCells[decl.Name+"!"+cm.Location.Cell] = true
			}
			out = append(out, threaded...)
		}
	}

	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return out, diags, err
		}
		notes, err := f.GetComments(sheet)
		if err != nil {
			diags = append(diags, errDiag("comments", "sheet "+sheet+" comments unreadable", err))
			continue
		}
		for _, note := range notes {
			if threadedCells[sheet+"!"+note.Cell] {
				continue
			}
			out = append(out, models.CommentInfo{
				Location: cellRef(sheet, note.Cell),
				Author:   note.Author,
				Text:     commentText(note),
			})
		}
	}
	return out, diags, nil
}

func commentText(note excelize.Comment) string {
	if note.Text != "" {
		return note.Text
	}
	var b strings.Builder
	for _, run := range note.Paragraph {
		b.WriteString(run.Text)
	}
	return b.String()
}

type threadedCommentXML struct {
	Ref      string `xml:"ref,attr"`
	PersonID string `xml:"personId,attr"`
	ID       string `xml:"id,attr"`
	ParentID string `xml:"parentId,attr"`
	Text     string `xml:"text"`
}

// parseThreadedComments reads one threadedComment part and links replies to
// their root comment via parentId.
func parseThreadedComments(c *container.Container, part, sheet string, persons map[string]string) ([]models.CommentInfo, error) {
	data, err := c.ReadPart(part)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Comments []threadedCommentXML `xml:"threadedComment"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	roots := make(map[string]*models.CommentInfo)
	var order []string
	for _, tc := range doc.Comments {
		info := models.CommentInfo{
			Location:   cellRef(sheet, tc.Ref),
			Author:     persons[tc.PersonID],
			Text:       tc.Text,
			IsThreaded: true,
		}
		if tc.ParentID == "" {
			cp := info
			roots[tc.ID] = &cp
			order = append(order, tc.ID)
			continue
		}
		if root, ok := roots[tc.ParentID]; ok {
			root.Replies = append(root.Replies, info)
		}
	}

	out := make([]models.CommentInfo, 0, len(order))
	for _, id := range order {
		out = append(out, *roots[id])
	}
	return out, nil
}

// personNames maps person ids to display names from the persons part.
func personNames(c *container.Container) map[string]string {
	names := make(map[string]string)
	for _, part := range c.ListParts() {
		if !strings.HasPrefix(part, "xl/persons/") {
			continue
		}
		data, err := c.ReadPart(part)
		if err != nil {
			continue
		}
		var doc struct {
			Persons []struct {
				DisplayName string `xml:"displayName,attr"`
				ID          string `xml:"id,attr"`
			} `xml:"person"`
		}
		if err := xml.Unmarshal(data, &doc); err != nil {
			continue
		}
		for _, p := range doc.Persons {
			names[p.ID] = p.DisplayName
		}
	}
	return names
}
