package dto

// MachineForm is the multipart create/update payload for machines. The 3D
// asset travels as the separate "glb_file" part; everything else is form
// fields, coerced with the same forgiving rules as JSON bodies.
type MachineForm struct {
	Name           string `form:"name"`
	Reference      string `form:"reference"`
	Quantity       string `form:"quantity"`
	Location       string `form:"location"`
	Price          string `form:"price"`
	AlertThreshold string `form:"alert_threshold"`
	Dimensions     string `form:"dimensions"`
	Weight         string `form:"weight"`
	CADLinkPath    string `form:"cad_link_path"`
}

type MachineFileResponse struct {
	ID         uint   `json:"id"`
	Filename   string `json:"filename"`
	StoredPath string `json:"stored_path"`
	FileType   string `json:"file_type"`
	UploadedAt string `json:"uploaded_at"`
}

type FileUploadResponse struct {
	ID         uint   `json:"id"`
	StoredPath string `json:"stored_path"`
}
