package catalog

import (
	"net/url"

	"concursync/internal/domain/entity"
	"concursync/internal/domain/schema"
)

const listItemNameMax = 64

func listItemSchema(listID string) schema.Schema {
	s := schema.Schema{schema.ScalarField{Name: "ID"}}
	for _, level := range []string{
		"Level1Code", "Level2Code", "Level3Code", "Level4Code", "Level5Code",
		"Level6Code", "Level7Code", "Level8Code", "Level9Code", "Level10Code",
	} {
		s = append(s, schema.ScalarField{Name: level})
	}
	return append(s,
		schema.ConstantField{Name: "listID", Value: listID},
		schema.ScalarField{Name: "Name", MaxLength: listItemNameMax},
		schema.ScalarField{Name: "ParentID"},
		schema.ScalarField{Name: "URI"},
	)
}

func listItem(base, listID string) entity.Definition {
	target := endpoint(base, "/api/v3.0/common/listitems")
	return entity.Definition{
		Type:     TypeListItem,
		KeyField: "ID",
		Schema:   listItemSchema(listID),
		Endpoints: entity.Endpoints{
			Search:        target,
			Entity:        target,
			UpdateWithKey: true,
			ListQuery:     listQuery(listID),
		},
		Prepare: prepareListItem,
	}
}

func listQuery(listID string) url.Values {
	if listID == "" {
		return nil
	}
	return url.Values{"listID": {listID}}
}

// prepareListItem пустое имя заменяется кодом первого уровня
func prepareListItem(rec schema.Record) schema.Record {
	if !blank(rec["Name"]) {
		return rec
	}
	out := clone(rec)
	out["Name"] = rec["Level1Code"]
	return out
}
