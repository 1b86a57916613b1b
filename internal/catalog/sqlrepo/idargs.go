package sqlrepo

import (
	"github.com/tonimelisma/musiccore/internal/capability"
	"github.com/tonimelisma/musiccore/internal/catalog"
)

func idArg(id catalog.ID) capability.Value { return textArg(id.String()) }

func nullableIDArg(id *catalog.ID) capability.Value {
	if id == nil || id.IsZero() {
		return nullArg()
	}

	return textArg(id.String())
}

func rowID(r capability.Row, i int) (catalog.ID, error) {
	return catalog.ParseID(rowText(r, i))
}

func rowIDPtr(r capability.Row, i int) (*catalog.ID, error) {
	if r[i].Kind == capability.ValueNull {
		return nil, nil
	}

	id, err := catalog.ParseID(rowText(r, i))
	if err != nil {
		return nil, err
	}

	return &id, nil
}
