package controllers

import (
	"errors"
	"strconv"
	"sync"

	"github.com/devmazaharul/fcommerce/models"
	"github.com/devmazaharul/fcommerce/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the bdphone and bkashtrx rules to gin's validator.
// Safe to call more than once.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		if err = v.RegisterValidation("bdphone", func(fl validator.FieldLevel) bool {
			return models.PhonePattern.MatchString(fl.Field().String())
		}); err != nil {
			return
		}
		err = v.RegisterValidation("bkashtrx", func(fl validator.FieldLevel) bool {
			return models.TrxIDPattern.MatchString(fl.Field().String())
		})
	})
	return err
}

func respondError(ctx *gin.Context, svcErr *services.ServiceError) {
	if svcErr.Err != nil {
		_ = ctx.Error(svcErr)
	}
	ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
}

func invalidRequest(ctx *gin.Context, err error) {
	ctx.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
}

// parsePaginationParams extracts and validates pagination parameters.
func parsePaginationParams(ctx *gin.Context) (int, int) {
	const MaxLimit = 100
	const DefaultPage = 1
	const DefaultLimit = 20

	pageInt := DefaultPage
	limitInt := DefaultLimit

	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		pageInt = p
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", "20")); err == nil && l > 0 {
		limitInt = min(l, MaxLimit)
	}
	return pageInt, limitInt
}

func paginationMeta(page, limit int, total int64) gin.H {
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return gin.H{
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": totalPages,
		"has_more":    total > int64(page*limit),
	}
}
