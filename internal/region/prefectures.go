package region

import (
	"fmt"

	"farmstay-go/pkg/model"
)

// TotalPrefectures is the size of the built-in catalog
const TotalPrefectures = 47

// ImageURL is the stamp artwork path for a region
func ImageURL(r model.Region) string {
	return fmt.Sprintf("/uploads/stamps/prefectures/%s_%s.png", r.Code, r.NameRomaji)
}

// Prefectures is the built-in catalog in display order
var Prefectures = []model.Region{
	{Code: "01", Name: "北海道", NameRomaji: "hokkaido", Area: "hokkaido", DisplayOrder: 1},

	{Code: "02", Name: "青森県", NameRomaji: "aomori", Area: "tohoku", DisplayOrder: 2},
	{Code: "03", Name: "岩手県", NameRomaji: "iwate", Area: "tohoku", DisplayOrder: 3},
	{Code: "04", Name: "宮城県", NameRomaji: "miyagi", Area: "tohoku", DisplayOrder: 4},
	{Code: "05", Name: "秋田県", NameRomaji: "akita", Area: "tohoku", DisplayOrder: 5},
	{Code: "06", Name: "山形県", NameRomaji: "yamagata", Area: "tohoku", DisplayOrder: 6},
	{Code: "07", Name: "福島県", NameRomaji: "fukushima", Area: "tohoku", DisplayOrder: 7},

	{Code: "08", Name: "茨城県", NameRomaji: "ibaraki", Area: "kanto", DisplayOrder: 8},
	{Code: "09", Name: "栃木県", NameRomaji: "tochigi", Area: "kanto", DisplayOrder: 9},
	{Code: "10", Name: "群馬県", NameRomaji: "gunma", Area: "kanto", DisplayOrder: 10},
	{Code: "11", Name: "埼玉県", NameRomaji: "saitama", Area: "kanto", DisplayOrder: 11},
	{Code: "12", Name: "千葉県", NameRomaji: "chiba", Area: "kanto", DisplayOrder: 12},
	{Code: "13", Name: "東京都", NameRomaji: "tokyo", Area: "kanto", DisplayOrder: 13},
	{Code: "14", Name: "神奈川県", NameRomaji: "kanagawa", Area: "kanto", DisplayOrder: 14},

	{Code: "15", Name: "新潟県", NameRomaji: "niigata", Area: "chubu", DisplayOrder: 15},
	{Code: "16", Name: "富山県", NameRomaji: "toyama", Area: "chubu", DisplayOrder: 16},
	{Code: "17", Name: "石川県", NameRomaji: "ishikawa", Area: "chubu", DisplayOrder: 17},
	{Code: "18", Name: "福井県", NameRomaji: "fukui", Area: "chubu", DisplayOrder: 18},
	{Code: "19", Name: "山梨県", NameRomaji: "yamanashi", Area: "chubu", DisplayOrder: 19},
	{Code: "20", Name: "長野県", NameRomaji: "nagano", Area: "chubu", DisplayOrder: 20},
	{Code: "21", Name: "岐阜県", NameRomaji: "gifu", Area: "chubu", DisplayOrder: 21},
	{Code: "22", Name: "静岡県", NameRomaji: "shizuoka", Area: "chubu", DisplayOrder: 22},
	{Code: "23", Name: "愛知県", NameRomaji: "aichi", Area: "chubu", DisplayOrder: 23},

	{Code: "24", Name: "三重県", NameRomaji: "mie", Area: "kinki", DisplayOrder: 24},
	{Code: "25", Name: "滋賀県", NameRomaji: "shiga", Area: "kinki", DisplayOrder: 25},
	{Code: "26", Name: "京都府", NameRomaji: "kyoto", Area: "kinki", DisplayOrder: 26},
	{Code: "27", Name: "大阪府", NameRomaji: "osaka", Area: "kinki", DisplayOrder: 27},
	{Code: "28", Name: "兵庫県", NameRomaji: "hyogo", Area: "kinki", DisplayOrder: 28},
	{Code: "29", Name: "奈良県", NameRomaji: "nara", Area: "kinki", DisplayOrder: 29},
	{Code: "30", Name: "和歌山県", NameRomaji: "wakayama", Area: "kinki", DisplayOrder: 30},

	{Code: "31", Name: "鳥取県", NameRomaji: "tottori", Area: "chugoku", DisplayOrder: 31},
	{Code: "32", Name: "島根県", NameRomaji: "shimane", Area: "chugoku", DisplayOrder: 32},
	{Code: "33", Name: "岡山県", NameRomaji: "okayama", Area: "chugoku", DisplayOrder: 33},
	{Code: "34", Name: "広島県", NameRomaji: "hiroshima", Area: "chugoku", DisplayOrder: 34},
	{Code: "35", Name: "山口県", NameRomaji: "yamaguchi", Area: "chugoku", DisplayOrder: 35},

	{Code: "36", Name: "徳島県", NameRomaji: "tokushima", Area: "shikoku", DisplayOrder: 36},
	{Code: "37", Name: "香川県", NameRomaji: "kagawa", Area: "shikoku", DisplayOrder: 37},
	{Code: "38", Name: "愛媛県", NameRomaji: "ehime", Area: "shikoku", DisplayOrder: 38},
	{Code: "39", Name: "高知県", NameRomaji: "kochi", Area: "shikoku", DisplayOrder: 39},

	{Code: "40", Name: "福岡県", NameRomaji: "fukuoka", Area: "kyushu", DisplayOrder: 40},
	{Code: "41", Name: "佐賀県", NameRomaji: "saga", Area: "kyushu", DisplayOrder: 41},
	{Code: "42", Name: "長崎県", NameRomaji: "nagasaki", Area: "kyushu", DisplayOrder: 42},
	{Code: "43", Name: "熊本県", NameRomaji: "kumamoto", Area: "kyushu", DisplayOrder: 43},
	{Code: "44", Name: "大分県", NameRomaji: "oita", Area: "kyushu", DisplayOrder: 44},
	{Code: "45", Name: "宮崎県", NameRomaji: "miyazaki", Area: "kyushu", DisplayOrder: 45},
	{Code: "46", Name: "鹿児島県", NameRomaji: "kagoshima", Area: "kyushu", DisplayOrder: 46},
	{Code: "47", Name: "沖縄県", NameRomaji: "okinawa", Area: "kyushu", DisplayOrder: 47},
}
