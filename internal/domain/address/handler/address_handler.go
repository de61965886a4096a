package handler

import (
	"errors"
	"net/http"

	"desitasty_backend/internal/domain/address/model"
	"desitasty_backend/internal/domain/address/repository"
	"desitasty_backend/internal/domain/address/service"
	"desitasty_backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AddressHandler struct {
	service service.AddressService
}

func NewAddressHandler(s service.AddressService) *AddressHandler {
	return &AddressHandler{service: s}
}

// SubmitInput 地址提交输入
// UID、收件人和邮编必填，其余字段可空
type SubmitInput struct {
	UID          string `json:"uid" binding:"required"`
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName"`
	HouseDetails string `json:"houseDetails"`
	AreaDetails  string `json:"areaDetails"`
	Landmark     string `json:"landmark"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode" binding:"required"`
	Phone        string `json:"phone"`
	Email        string `json:"email" binding:"omitempty,email"`
}

// Submit 提交/更新收货地址
// @Summary 提交收货地址
// @Tags Address
// @Accept json
// @Produce json
// @Param input body SubmitInput true "Address Info"
// @Success 200 {object} response.Response
// @Router /api/address [post]
func (h *AddressHandler) Submit(c *gin.Context) {
	var input SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	address := &model.Address{
		UID:          input.UID,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		HouseDetails: input.HouseDetails,
		AreaDetails:  input.AreaDetails,
		Landmark:     input.Landmark,
		City:         input.City,
		State:        input.State,
		Pincode:      input.Pincode,
		Phone:        input.Phone,
		Email:        input.Email,
	}

	created, err := h.service.Submit(address)
	if err != nil {
		if errors.Is(err, service.ErrUserNotRegistered) {
			response.Error(c, http.StatusNotFound, response.ErrUserNotFound, "Please register this UID first")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to save address")
		return
	}

	action := "update"
	if created {
		action = "create"
	}
	response.Success(c, gin.H{"action": action, "addressId": address.ID})
}

// GetByUID 查询用户地址
// @Summary 查询收货地址
// @Tags Address
// @Router /get-address/{uid} [get]
func (h *AddressHandler) GetByUID(c *gin.Context) {
	uid := c.Param("uid")

	address, err := h.service.GetByUID(uid)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrAddressNotFound, "Address not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to load address")
		return
	}

	response.Success(c, address)
}
