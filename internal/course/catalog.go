// Package course holds the training catalog and per-employee
// availability records seeded at onboarding.
package course

// Course is a catalog entry. The catalog is static; availability is
// tracked per employee.
type Course struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Catalog returns every course an employee can eventually unlock.
func Catalog() []Course {
	return []Course{
		{Slug: "saude-mental-no-trabalho", Title: "Saúde Mental no Trabalho"},
		{Slug: "gestao-de-estresse", Title: "Gestão de Estresse"},
		{Slug: "comunicacao-nao-violenta", Title: "Comunicação Não Violenta"},
		{Slug: "lideranca-humanizada", Title: "Liderança Humanizada"},
		{Slug: "prevencao-ao-burnout", Title: "Prevenção ao Burnout"},
		{Slug: "inteligencia-emocional", Title: "Inteligência Emocional"},
	}
}
