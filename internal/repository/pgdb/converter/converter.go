package converter

import "github.com/DRSN-tech/storefront/internal/domain"

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []ProductModel) []domain.Product
}

type productConverter struct{}

func NewProductConverter() ProductConverter {
	return productConverter{}
}

func (productConverter) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       domain.MinorUnits(entity.Price),
		Category:    entity.Category,
		Brand:       entity.Brand,
		Material:    entity.Material,
		SKU:         entity.SKU,
		Inventory:   int32(entity.Inventory),
		Sizes:       nonNil(entity.Sizes),
		Colors:      nonNil(entity.Colors),
		Images:      nonNil(entity.Images),
		Featured:    entity.Featured,
		Active:      entity.Active,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (productConverter) ToEntity(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Price:       domain.FromMinorUnits(model.Price),
		Category:    model.Category,
		Brand:       model.Brand,
		Material:    model.Material,
		SKU:         model.SKU,
		Inventory:   int(model.Inventory),
		Sizes:       nonNil(model.Sizes),
		Colors:      nonNil(model.Colors),
		Images:      nonNil(model.Images),
		Featured:    model.Featured,
		Active:      model.Active,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func (c productConverter) ToArrEntity(models []ProductModel) []domain.Product {
	entities := make([]domain.Product, 0, len(models))
	for i := range models {
		entities = append(entities, *c.ToEntity(&models[i]))
	}
	return entities
}

// nonNil гарантирует пустой массив вместо NULL в TEXT[].
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
