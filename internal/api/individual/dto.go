package individual

import "github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"

type IndividualFormRequest struct {
	ID        string `json:"id" form:"id" validate:"omitempty,max=64"`
	Nombre    string `json:"nombre" form:"nombre" validate:"required,max=100"`
	Apellido1 string `json:"apellido1" form:"apellido1" validate:"omitempty,max=100"`
	Apellido2 string `json:"apellido2" form:"apellido2" validate:"omitempty,max=100"`
}

// ToForm attaches the optional reference photo to the validated fields.
func (r IndividualFormRequest) ToForm(file *entity.Upload) entity.IndividualForm {
	return entity.IndividualForm{
		ID:        r.ID,
		Nombre:    r.Nombre,
		Apellido1: r.Apellido1,
		Apellido2: r.Apellido2,
		File:      file,
	}
}

type IndividualListResponse struct {
	Individuals []entity.IndividualView `json:"individuals"`
	Total       int                     `json:"total"`
}

type FaceResponse struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

type FaceListResponse struct {
	IndividualID string         `json:"individual_id"`
	Faces        []FaceResponse `json:"faces"`
}
