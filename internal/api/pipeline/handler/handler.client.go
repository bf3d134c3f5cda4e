package pipelinehdl

import (
	"fmt"

	basehdl "github.com/Naim3097/X.IDE-CMS/internal/api/base/handler"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/dto"
	"github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/models"
	pipelinesvc "github.com/Naim3097/X.IDE-CMS/internal/api/pipeline/service"
)

// ClientHandler CRUD khách hàng cho màn hình onboarding của agency —
// toàn bộ đi qua base handler generic.
type ClientHandler struct {
	*basehdl.BaseHandler[models.Client, dto.ClientCreateInput, dto.ClientUpdateInput]
}

// NewClientHandler tạo ClientHandler mới.
func NewClientHandler() (*ClientHandler, error) {
	svc, err := pipelinesvc.NewClientService()
	if err != nil {
		return nil, fmt.Errorf("tạo ClientService: %w", err)
	}
	return &ClientHandler{
		BaseHandler: basehdl.NewBaseHandler[models.Client, dto.ClientCreateInput, dto.ClientUpdateInput](svc),
	}, nil
}
