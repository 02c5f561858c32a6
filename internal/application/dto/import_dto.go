package dto

// RowError error de una fila del archivo importado. Row es el número de fila en el archivo (encabezado = 1).
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ImportResult resumen de una importación masiva.
type ImportResult struct {
	Created int        `json:"created"`
	Skipped int        `json:"skipped"`
	Errors  []RowError `json:"errors"`
}
