package converter

import "github.com/DRSN-tech/storefront/internal/domain"

// ProductConverter преобразует товары между domain и моделью кэша.
type ProductConverter interface {
	ToRedisModel(entity *domain.Product) *ProductRedisModel
	ToDomain(model *ProductRedisModel) *domain.Product
	ToArrRedisModel(entities []domain.Product) []ProductRedisModel
	ToArrDomain(models []ProductRedisModel) []domain.Product
}

type productConverter struct{}

func NewProductConverter() ProductConverter {
	return productConverter{}
}

func (productConverter) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	return &ProductRedisModel{
		ID:          entity.ID,
		Name:        entity.Name,
		Description: entity.Description,
		Price:       domain.MinorUnits(entity.Price),
		Category:    entity.Category,
		Brand:       entity.Brand,
		Material:    entity.Material,
		SKU:         entity.SKU,
		Inventory:   entity.Inventory,
		Sizes:       entity.Sizes,
		Colors:      entity.Colors,
		Images:      entity.Images,
		Featured:    entity.Featured,
		Active:      entity.Active,
		CreatedAt:   entity.CreatedAt,
		UpdatedAt:   entity.UpdatedAt,
	}
}

func (productConverter) ToDomain(model *ProductRedisModel) *domain.Product {
	return &domain.Product{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Price:       domain.FromMinorUnits(model.Price),
		Category:    model.Category,
		Brand:       model.Brand,
		Material:    model.Material,
		SKU:         model.SKU,
		Inventory:   model.Inventory,
		Sizes:       nonNil(model.Sizes),
		Colors:      nonNil(model.Colors),
		Images:      nonNil(model.Images),
		Featured:    model.Featured,
		Active:      model.Active,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func (c productConverter) ToArrRedisModel(entities []domain.Product) []ProductRedisModel {
	models := make([]ProductRedisModel, 0, len(entities))
	for i := range entities {
		models = append(models, *c.ToRedisModel(&entities[i]))
	}
	return models
}

func (c productConverter) ToArrDomain(models []ProductRedisModel) []domain.Product {
	entities := make([]domain.Product, 0, len(models))
	for i := range models {
		entities = append(entities, *c.ToDomain(&models[i]))
	}
	return entities
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
