package patterns

import "github.td.teradata.com/sandbox/led-ctl/internal/services/common"

// row builds a frame from 0/1 values, cell 0 first.
func row(v ...int) common.Frame {
	var f common.Frame
	for i := 0; i < common.Cells && i < len(v); i++ {
		f[i] = v[i] != 0
	}
	return f
}

var carrera = []common.Frame{
	row(1, 0, 0, 0, 0, 0, 0, 0),
	row(0, 1, 0, 0, 0, 0, 0, 0),
	row(0, 0, 1, 0, 0, 0, 0, 0),
	row(1, 0, 0, 1, 0, 0, 0, 0),
	row(0, 1, 0, 0, 1, 0, 0, 0),
	row(0, 0, 1, 0, 1, 0, 0, 0),
	row(0, 0, 0, 1, 0, 1, 0, 0),
	row(0, 0, 0, 0, 1, 1, 0, 0),
	row(0, 0, 0, 0, 0, 1, 1, 0),
	row(0, 0, 0, 0, 0, 0, 1, 0),
	row(0, 0, 0, 0, 0, 0, 0, 1),
}

var choque = []common.Frame{
	row(1, 0, 0, 0, 0, 0, 0, 1),
	row(0, 1, 0, 0, 0, 0, 1, 0),
	row(0, 0, 1, 0, 0, 1, 0, 0),
	row(0, 0, 0, 1, 1, 0, 0, 0),
	row(0, 0, 0, 1, 1, 0, 0, 0),
	row(0, 0, 1, 0, 0, 1, 0, 0),
	row(0, 1, 0, 0, 0, 0, 1, 0),
	row(1, 0, 0, 0, 0, 0, 0, 1),
}

var danza = []common.Frame{
	row(0, 0, 1, 1, 0, 0, 1, 1),
	row(1, 1, 0, 0, 1, 1, 0, 0),
	row(0, 0, 1, 1, 1, 1, 0, 0),
	row(1, 1, 0, 0, 0, 0, 1, 1),
	row(1, 1, 1, 1, 1, 1, 1, 1),
	row(1, 1, 0, 0, 0, 0, 1, 1),
	row(0, 0, 1, 1, 1, 1, 0, 0),
	row(1, 1, 0, 0, 1, 1, 0, 0),
	row(0, 0, 1, 1, 0, 0, 1, 1),
}

var escaleraCentral = []common.Frame{
	row(0, 0, 0, 0, 0, 0, 0, 0),
	row(1, 0, 0, 0, 0, 0, 0, 1),
	row(1, 1, 0, 0, 0, 0, 1, 1),
	row(1, 1, 1, 0, 0, 1, 1, 1),
	row(1, 1, 1, 1, 1, 1, 1, 1),
	row(1, 1, 1, 0, 0, 1, 1, 1),
	row(1, 1, 0, 0, 0, 0, 1, 1),
	row(1, 0, 0, 0, 0, 0, 0, 1),
}
