package controllers

import (
	"sync"

	"penjahit-backend/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the shop's enum checks to gin's validator so request
// structs can use them in binding tags.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
			return models.ValidGender(fl.Field().String())
		})
		_ = v.RegisterValidation("gendertag", func(fl validator.FieldLevel) bool {
			return models.ValidGenderTag(fl.Field().String())
		})
		_ = v.RegisterValidation("garmentcategory", func(fl validator.FieldLevel) bool {
			return models.ValidCategory(fl.Field().String())
		})
		_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
			return models.OrderStatus(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("paymethod", func(fl validator.FieldLevel) bool {
			return models.PaymentMethod(fl.Field().String()).Valid()
		})
	})
}
