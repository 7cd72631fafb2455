package connection

// Pointers tell a missing field apart from a zero value.

type ReqHover struct {
	CellIndex *int `json:"cell_index"`
}

type ReqSelectShip struct {
	ShipKind *uint8 `json:"ship_kind"`
}
