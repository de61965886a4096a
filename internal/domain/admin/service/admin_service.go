package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"desitasty_backend/internal/domain/admin/model"
	"desitasty_backend/internal/domain/admin/repository"
	"desitasty_backend/pkg/logger"
	"desitasty_backend/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// dashboardCacheKey 统计缓存键，短 TTL 抵挡后台页面反复刷新
const (
	dashboardCacheKey = "admin:dashboard:stats"
	dashboardCacheTTL = time.Minute
)

type AdminService interface {
	Login(username, password string) (token string, err error)
	GetDashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

type adminService struct {
	repo repository.AdminRepository
	rdb  *redis.Client
}

func NewAdminService(repo repository.AdminRepository, rdb *redis.Client) AdminService {
	return &adminService{repo: repo, rdb: rdb}
}

func (s *adminService) Login(username, password string) (string, error) {
	admin, err := s.repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			// 不区分"用户不存在"和"密码错误"，避免枚举账号
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, _, err := utils.GenerateToken(admin.ID, utils.RoleAdmin)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *adminService) GetDashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	// 先查缓存
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var stats model.DashboardStats
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.repo.GetDashboardStats()
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache dashboard stats", zap.Error(err))
			}
		}
	}

	return stats, nil
}
