// Package database 定义了主页系统的数据库模型
// 包含教授、论文、教育经历、科研项目、课程、奖项、联系方式以及OSS相关模型
package database

import (
	"time"

	"gorm.io/datatypes"
)

// Base 所有主页实体共用的主键与时间戳字段
type Base struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetID 返回主键
func (b *Base) GetID() uint { return b.ID }

// SetID 设置主键
func (b *Base) SetID(id uint) { b.ID = id }

// PublicationType 论文类型
type PublicationType string

const (
	PublicationJournal     PublicationType = "JOURNAL"
	PublicationConference  PublicationType = "CONFERENCE"
	PublicationBook        PublicationType = "BOOK"
	PublicationBookChapter PublicationType = "BOOK_CHAPTER"
)

// PublicationTypes 全部论文类型，顺序用于页面筛选项
var PublicationTypes = []PublicationType{
	PublicationJournal,
	PublicationConference,
	PublicationBook,
	PublicationBookChapter,
}

// Professor 教授基本信息
type Professor struct {
	Base
	Name              string `gorm:"not null;size:100" json:"name" binding:"required"` // 姓名
	Title             string `gorm:"size:100" json:"title"`                            // 职称
	University        string `gorm:"size:200" json:"university"`                       // 所属大学
	Department        string `gorm:"size:200" json:"department"`                       // 院系
	ResearchInterests string `gorm:"type:text" json:"research_interests"`              // 研究方向
	Email             string `gorm:"size:100" json:"email" binding:"omitempty,email"`  // 邮箱
	Biography         string `gorm:"type:text" json:"biography"`                       // 个人简介
	AvatarURL         string `gorm:"size:500" json:"avatar_url"`                       // 头像URL，由上传接口维护
}

func (Professor) TableName() string {
	return "professors"
}

// Publication 论文/著作
type Publication struct {
	Base
	ProfessorID     uint            `gorm:"index;not null" json:"professor_id"`
	Title           string          `gorm:"not null;size:500" json:"title" binding:"required,max=500"`
	Authors         string          `gorm:"size:1000" json:"authors"`
	Journal         string          `gorm:"size:500" json:"journal"` // 期刊或会议名称
	Year            *int            `gorm:"index" json:"year"`
	Volume          string          `gorm:"size:50" json:"volume"`
	Pages           string          `gorm:"size:50" json:"pages"`
	DOI             string          `gorm:"column:doi;size:200" json:"doi"`
	URL             string          `gorm:"column:url;size:500" json:"url"`
	PDFURL          string          `gorm:"column:pdf_url;size:500" json:"pdf_url"` // 由上传接口维护
	PublicationType PublicationType `gorm:"size:20" json:"publication_type" binding:"omitempty,oneof=JOURNAL CONFERENCE BOOK BOOK_CHAPTER"`
}

func (Publication) TableName() string {
	return "publications"
}

// Education 教育经历
type Education struct {
	Base
	ProfessorID uint   `gorm:"index;not null" json:"professor_id"`
	Degree      string `gorm:"size:20" json:"degree" binding:"omitempty,oneof=BACHELOR MASTER PHD POSTDOC"`
	Major       string `gorm:"size:200" json:"major"`
	University  string `gorm:"size:200" json:"university"`
	StartYear   *int   `json:"start_year"`
	EndYear     *int   `json:"end_year"`
}

func (Education) TableName() string {
	return "educations"
}

// ResearchProject 科研项目
type ResearchProject struct {
	Base
	ProfessorID   uint       `gorm:"index;not null" json:"professor_id"`
	Title         string     `gorm:"not null;size:500" json:"title" binding:"required"`
	Description   string     `gorm:"type:text" json:"description"`
	FundingSource string     `gorm:"size:200" json:"funding_source"`
	FundingAmount *float64   `json:"funding_amount"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Status        string     `gorm:"size:20" json:"status" binding:"omitempty,oneof=ONGOING COMPLETED PLANNED"`
}

func (ResearchProject) TableName() string {
	return "research_projects"
}

// CourseMaterial 课程资料条目，由客户端维护整个列表
type CourseMaterial struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// TeachingCourse 授课课程
type TeachingCourse struct {
	Base
	ProfessorID uint                                `gorm:"index;not null" json:"professor_id"`
	CourseName  string                              `gorm:"not null;size:200" json:"course_name" binding:"required"`
	CourseCode  string                              `gorm:"size:50" json:"course_code"`
	Semester    string                              `gorm:"size:50" json:"semester"`
	Year        *int                                `json:"year"`
	Description string                              `gorm:"type:text" json:"description"`
	Credits     *int                                `json:"credits"`
	Materials   datatypes.JSONSlice[CourseMaterial] `json:"materials"` // 通过资料接口整体替换
}

func (TeachingCourse) TableName() string {
	return "teaching_courses"
}

// Award 获奖情况
type Award struct {
	Base
	ProfessorID  uint   `gorm:"index;not null" json:"professor_id"`
	Title        string `gorm:"not null;size:500" json:"title" binding:"required"`
	Organization string `gorm:"size:200" json:"organization"`
	Year         *int   `json:"year"`
	Description  string `gorm:"type:text" json:"description"`
	Level        string `gorm:"size:20" json:"level" binding:"omitempty,oneof=INTERNATIONAL NATIONAL PROVINCIAL UNIVERSITY OTHER"`
}

func (Award) TableName() string {
	return "awards"
}

// ContactInfo 联系方式，每位教授至多一条
type ContactInfo struct {
	Base
	ProfessorID      uint     `gorm:"uniqueIndex;not null" json:"professor_id"`
	OfficeLocation   string   `gorm:"size:200" json:"office_location"`
	OfficePhone      string   `gorm:"size:50" json:"office_phone"`
	OfficeHours      string   `gorm:"size:200" json:"office_hours"`
	WechatQRCode     string   `gorm:"column:wechat_qrcode;size:500" json:"wechat_qrcode"` // 由上传接口维护
	GoogleScholarURL string   `gorm:"size:500" json:"google_scholar_url"`
	ResearchGateURL  string   `gorm:"column:researchgate_url;size:500" json:"researchgate_url"`
	LinkedInURL      string   `gorm:"column:linkedin_url;size:500" json:"linkedin_url"`
	OrcidURL         string   `gorm:"size:500" json:"orcid_url"`
	MapAddress       string   `gorm:"size:500" json:"map_address"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	MapZoom          int      `gorm:"default:15" json:"map_zoom"`
	OtherContacts    string   `gorm:"type:text" json:"other_contacts"`
}

func (ContactInfo) TableName() string {
	return "contact_infos"
}
