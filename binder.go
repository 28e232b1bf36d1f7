package xlembed

// rowBinding is the outcome of binding one data row to the asset store.
type rowBinding struct {
	row   int
	key   string
	asset string
	data  []byte
}

// binder matches data rows to assets by their derived filename.
type binder struct {
	store  *AssetStore
	namer  AssetNamer
	cols   ColumnRef
	header []string
}

// bind resolves one data row. A row with an empty key returns ok=false and
// no notice. A row whose asset is absent returns a notice. err is reserved
// for staging I/O failures.
func (b *binder) bind(rowNum int, cells []string) (rb rowBinding, notice *Notice, ok bool, err error) {
	key := cellAt(cells, b.cols.Identifier)
	if key == "" {
		return rowBinding{}, nil, false, nil
	}

	name, nerr := b.namer.AssetName(RowInput{Row: rowNum, Key: key, Cells: b.rowCells(cells)})
	if nerr != nil {
		return rowBinding{}, &Notice{Row: rowNum, Key: key, Reason: AssetMissing, Err: nerr}, false, nil
	}

	data, found, err := b.store.Lookup(name)
	if err != nil {
		return rowBinding{}, nil, false, err
	}
	if !found {
		return rowBinding{}, &Notice{Row: rowNum, Key: key, Asset: name, Reason: AssetMissing}, false, nil
	}
	return rowBinding{row: rowNum, key: key, asset: name, data: data}, nil, true, nil
}

// rowCells maps header labels to this row's values. Duplicate labels keep
// the first column, matching schema resolution.
func (b *binder) rowCells(cells []string) map[string]string {
	if _, fixed := b.namer.(partNamer); fixed {
		return nil
	}
	m := make(map[string]string, len(b.header))
	for i, label := range b.header {
		if label == "" {
			continue
		}
		if _, seen := m[label]; seen {
			continue
		}
		m[label] = cellAt(cells, i+1)
	}
	return m
}
