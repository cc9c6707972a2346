package database

import (
	"errors"

	"github.com/weiwangfds/homepage/internal/logger"
	"gorm.io/gorm"
)

// Migrate 迁移全部表结构并创建查询索引
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Professor{},
		&Publication{},
		&Education{},
		&ResearchProject{},
		&TeachingCourse{},
		&Award{},
		&ContactInfo{},
		&OSSConfig{},
		&SyncLog{},
	)
	if err != nil {
		return err
	}
	return createIndexes(db)
}

// createIndexes 创建AutoMigrate无法表达的复合索引
func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		name    string
		table   string
		columns string
	}{
		// 论文检索排序：year DESC, id DESC
		{&Publication{}, "idx_publications_year_id", "publications", "year DESC, id DESC"},
		// 按教授列出论文
		{&Publication{}, "idx_publications_professor_year", "publications", "professor_id, year DESC"},
		{&Publication{}, "idx_publications_type_year", "publications", "publication_type, year DESC"},
		{&SyncLog{}, "idx_sync_logs_created", "sync_logs", "created_at DESC"},
	}

	// MySQL不支持 CREATE INDEX IF NOT EXISTS，统一先查询
	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}
		indexSQL := "CREATE INDEX " + idx.name + " ON " + idx.table + "(" + idx.columns + ")"
		if err := db.Exec(indexSQL).Error; err != nil {
			logger.Errorf("创建索引失败: %s, 错误: %v", indexSQL, err)
			return err
		}
	}
	return nil
}

// Seed 在空库中写入一位示例教授及其联系方式和论文
// 已存在教授记录时不做任何修改
func Seed(db *gorm.DB) error {
	var existing Professor
	err := db.First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	logger.Info("初始化示例数据...")

	return db.Transaction(func(tx *gorm.DB) error {
		professor := Professor{
			Name:              "张教授",
			Title:             "教授、博士生导师",
			University:        "示例大学",
			Department:        "计算机科学与技术学院",
			ResearchInterests: "深度学习、计算机视觉、自然语言处理",
			Email:             "professor@example.edu",
			Biography:         "<p>长期从事人工智能方向的教学与科研工作。</p>",
		}
		if err := tx.Create(&professor).Error; err != nil {
			return err
		}

		contact := ContactInfo{
			ProfessorID:    professor.ID,
			OfficeLocation: "信息楼 501",
			OfficeHours:    "周二、周四 14:00-16:00",
			MapZoom:        15,
		}
		if err := tx.Create(&contact).Error; err != nil {
			return err
		}

		year := func(y int) *int { return &y }
		publications := []Publication{
			{ProfessorID: professor.ID, Title: "Deep Residual Learning for Scene Parsing", Authors: "Zhang, Li", Journal: "CVPR", Year: year(2023), PublicationType: PublicationConference},
			{ProfessorID: professor.ID, Title: "A Survey of Graph Neural Networks", Authors: "Zhang, Wang", Journal: "IEEE TPAMI", Year: year(2022), PublicationType: PublicationJournal},
			{ProfessorID: professor.ID, Title: "机器学习导论", Authors: "张教授", Journal: "示例出版社", Year: year(2020), PublicationType: PublicationBook},
		}
		return tx.Create(&publications).Error
	})
}
