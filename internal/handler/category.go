package handler

import (
	"net/http"

	"clipnest/internal/service"
	"clipnest/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CategoryHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Search(c *gin.Context)

	// 管理端
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type categoryHandler struct {
	CategoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) CategoryHandler {
	return &categoryHandler{CategoryService: categoryService}
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *categoryHandler) List(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		sendServiceError(c, logger.Log.WithField("op", "list_categories"), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *categoryHandler) Get(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "category_id")
	if !ok {
		return
	}
	category, err := h.CategoryService.Get(categoryID)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("category_id", categoryID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (h *categoryHandler) Search(c *gin.Context) {
	categories, err := h.CategoryService.Search(c.Query("q"))
	if err != nil {
		sendServiceError(c, logger.Log.WithField("op", "search_categories"), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *categoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	logCtx := logger.Log.WithField("name", req.Name)
	category, err := h.CategoryService.Create(req.Name, req.Description)
	if err != nil {
		sendServiceError(c, logCtx, err)
		return
	}

	logCtx.WithField("category_id", category.ID).Info("分类创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "分类创建成功",
		"data":    category,
	})
}

func (h *categoryHandler) Update(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "category_id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
		return
	}

	category, err := h.CategoryService.Update(categoryID, req.Name, req.Description)
	if err != nil {
		sendServiceError(c, logger.Log.WithField("category_id", categoryID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "分类更新成功",
		"data":    category,
	})
}

func (h *categoryHandler) Delete(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "category_id")
	if !ok {
		return
	}
	if err := h.CategoryService.Delete(categoryID); err != nil {
		sendServiceError(c, logger.Log.WithField("category_id", categoryID), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "分类删除成功"})
}
