package seed

import "harmonyhealth/internal/domain/models"

func food(name, category string, calories, protein, carbohydrates, fat float64) models.Food {
	return models.Food{
		Name:     name,
		Category: category,
		Per100g: models.Nutrients{
			Calories:      calories,
			Protein:       protein,
			Carbohydrates: carbohydrates,
			Fat:           fat,
		},
	}
}

// Catalog is the built-in food list, nutrients per 100g
func Catalog() []models.Food {
	return []models.Food{
		food("米饭", "主食", 116, 2.6, 25.9, 0.3),
		food("馒头", "主食", 223, 7.0, 47.0, 1.1),
		food("面条", "主食", 109, 2.7, 22.8, 0.4),
		food("燕麦片", "主食", 367, 15.0, 61.6, 6.7),
		food("全麦面包", "主食", 246, 8.5, 45.0, 3.4),
		food("红薯", "薯类", 86, 1.6, 20.1, 0.1),
		food("土豆", "薯类", 77, 2.0, 17.2, 0.2),
		food("鸡蛋", "蛋类", 144, 13.3, 2.8, 8.8),
		food("鸡胸肉", "肉类", 133, 19.4, 2.5, 5.0),
		food("牛肉", "肉类", 125, 19.9, 2.0, 4.2),
		food("猪里脊", "肉类", 155, 20.2, 0.7, 7.9),
		food("三文鱼", "水产", 139, 17.2, 0.0, 7.8),
		food("虾仁", "水产", 48, 10.4, 0.0, 0.7),
		food("豆腐", "豆制品", 82, 8.1, 4.2, 3.7),
		food("牛奶", "乳制品", 54, 3.0, 3.4, 3.2),
		food("酸奶", "乳制品", 72, 2.5, 9.3, 2.7),
		food("西兰花", "蔬菜", 36, 4.1, 4.3, 0.6),
		food("菠菜", "蔬菜", 28, 2.6, 4.5, 0.3),
		food("番茄", "蔬菜", 20, 0.9, 4.0, 0.2),
		food("黄瓜", "蔬菜", 16, 0.8, 2.9, 0.2),
		food("苹果", "水果", 53, 0.4, 13.7, 0.2),
		food("香蕉", "水果", 93, 1.4, 22.0, 0.2),
		food("橙子", "水果", 48, 0.8, 11.1, 0.2),
		food("核桃", "坚果", 646, 14.9, 19.1, 58.8),
		food("花生", "坚果", 574, 24.8, 21.7, 44.3),
	}
}
