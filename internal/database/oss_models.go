package database

import (
	"time"

	"gorm.io/gorm"
)

// OSS服务提供商
const (
	ProviderAliyun  = "aliyun"
	ProviderTencent = "tencent"
	ProviderQiniu   = "qiniu"
	ProviderS3      = "s3"
)

// 同步类型与状态
const (
	SyncTypeUpload = "upload"
	SyncTypeDelete = "delete"

	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
)

// OSSConfig 对象存储服务配置模型
// 激活的配置用于镜像本地上传目录，系统中至多一个激活配置
type OSSConfig struct {
	ID            uint           `gorm:"primarykey" json:"id"`                           // 主键ID，自增
	Name          string         `gorm:"not null;size:100" json:"name"`                  // 配置名称
	Provider      string         `gorm:"not null;size:20" json:"provider"`               // aliyun、tencent、qiniu、s3
	Region        string         `gorm:"size:50" json:"region"`                          // 服务区域，如 cn-hangzhou、ap-beijing
	Bucket        string         `gorm:"not null;size:100" json:"bucket"`                // 存储桶名称
	AccessKey     string         `gorm:"not null;size:100" json:"access_key"`            // 访问密钥ID
	SecretKey     string         `gorm:"not null;size:200" json:"secret_key,omitempty"`  // 访问密钥Secret，响应前清空
	Endpoint      string         `gorm:"size:200" json:"endpoint"`                       // 自定义端点，可选
	IsActive      bool           `gorm:"default:false" json:"is_active"`                 // 是否为当前镜像目标
	IsEnabled     bool           `gorm:"default:true" json:"is_enabled"`                 // 禁用后不可激活
	AutoSync      bool           `json:"auto_sync"`                                      // 上传/删除时是否同步镜像
	SyncPath      string         `gorm:"size:200;default:'homepage'" json:"sync_path"`   // 对象键前缀
	KeepStructure bool           `json:"keep_structure"`                                 // 是否保留 uploads/<类别>/ 目录层级
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OSSConfig) TableName() string {
	return "oss_configs"
}

// SyncLog 镜像同步日志
// 每次推送或删除远端对象都会记录一条
type SyncLog struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	FileURL     string    `gorm:"not null;size:500;index" json:"file_url"` // 本地相对URL
	OSSConfigID uint      `gorm:"not null;index" json:"oss_config_id"`
	SyncType    string    `gorm:"not null;size:20" json:"sync_type"` // upload、delete
	Status      string    `gorm:"not null;size:20" json:"status"`    // success、failed
	OSSPath     string    `gorm:"size:500" json:"oss_path"`          // 远端对象键
	ErrorMsg    string    `gorm:"type:text" json:"error_msg"`
	FileSize    int64     `json:"file_size"` // 字节
	Duration    int64     `json:"duration"`  // 毫秒
	CreatedAt   time.Time `json:"created_at"`
}

func (SyncLog) TableName() string {
	return "sync_logs"
}
