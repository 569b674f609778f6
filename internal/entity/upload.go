package entity

// Upload is a file received from the operator, held in memory until it is
// forwarded to the backend.
type Upload struct {
	FileName    string
	ContentType string
	Content     []byte
}

// IndividualForm carries the fields of the create and edit forms.
type IndividualForm struct {
	ID        string
	Nombre    string
	Apellido1 string
	Apellido2 string
	File      *Upload
}

// Individual is the form without its photo, as sent on the JSON routes.
func (f IndividualForm) Individual() Individual {
	return Individual{
		ID:        f.ID,
		Nombre:    f.Nombre,
		Apellido1: f.Apellido1,
		Apellido2: f.Apellido2,
	}
}
