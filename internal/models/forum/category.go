package forum

import (
	"context"

	"github.com/goboardhq/goboard/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCategoryName is where questions land when no category is given.
// Overridden from app config at startup.
var DefaultCategoryName = "qna"

// Category groups questions into boards. Deleting a category is not part of
// the application flow, so its questions reference it without a cascade.
type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:50;not null;uniqueIndex" json:"name" validate:"required,max=50"`

	Questions []Question `gorm:"foreignKey:CategoryID" json:"-"`
}

// SeedCategories makes sure the named categories exist. The default category
// is always included so question creation can fall back to it.
func SeedCategories(ctx context.Context, db *gorm.DB, names ...string) error {
	if !utils.Contains(names, DefaultCategoryName) {
		names = append([]string{DefaultCategoryName}, names...)
	}
	for _, name := range names {
		cat := Category{ID: uuid.New(), Name: name}
		err := db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&cat).Error
		if err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to seed categories")
		}
	}
	return nil
}

// GetCategoryBy retrieves a single category by condition.
func GetCategoryBy(ctx context.Context, db *gorm.DB, condition string, args []interface{}) (*Category, error) {
	var cat Category
	if err := db.WithContext(ctx).Where(condition, args...).First(&cat).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Category not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to get category")
	}
	return &cat, nil
}

// ListCategories returns all categories ordered by name.
func ListCategories(ctx context.Context, db *gorm.DB) ([]Category, error) {
	var cats []Category
	if err := db.WithContext(ctx).Order("name").Find(&cats).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list categories")
	}
	return cats, nil
}
