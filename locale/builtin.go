package locale

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

func English() Config {
	return Config{
		Code: "en",
		Labels: Labels{
			Title:        "Loan Approval Dashboard",
			Subtitle:     "Analyze and predict loan approvals using our machine learning model",
			TabSingle:    "Single Application",
			TabBatch:     "Batch Processing",
			TabAnalytics: "Analytics",

			Approved: "Approved",
			Declined: "Declined",
			Ownership: map[string]string{
				"rent":     "Rent",
				"own":      "Own",
				"mortgage": "Mortgage",
				"other":    "Other",
			},
			Defaults: map[string]string{
				"yes": "Yes",
				"no":  "No",
			},

			ApprovalRateTitle:    "Approval Rate",
			OwnershipChartTitle:  "Home Ownership Impact",
			DefaultsChartTitle:   "Previous Defaults Impact",
			CreditScoreTitle:     "Credit Score Distribution",
			IncomeChartTitle:     "Income Distribution",
			LoanAmountChartTitle: "Loan Amount Distribution",
			AgeChartTitle:        "Age Distribution",

			Columns: map[string]string{
				"age":                  "Age",
				"income":               "Income",
				"loan_amount":          "Loan Amount",
				"credit_score":         "Credit Score",
				"home_ownership":       "Home Status",
				"previous_defaults":    "Prior Defaults",
				"result":               "Result",
				"approval_probability": "Probability",
			},
			Fields: map[string]string{
				"income":            "Annual Income ($)",
				"loan_amount":       "Loan Amount ($)",
				"loan_int_rate":     "Loan Interest Rate",
				"age":               "Age",
				"previous_defaults": "Previous Loan Defaults",
				"home_ownership":    "Home Ownership",
			},
			ResultsTitle:      "Prediction Results",
			TotalApplications: "Total applications",
			Submit:            "Predict Approval",
			Processing:        "Processing...",
			SelectFile:        "Select CSV File",
			DropHint:          "Drag & Drop your CSV file",
			SelectedFile:      "Selected file:",
			ExportCSV:         "Export CSV",
			ResetAnalysis:     "Clear analysis",
			Previous:          "Previous",
			Next:              "Next",

			NoResults:  "No results to display. Upload a CSV file or submit the form.",
			NoAnalysis: "No analysis data",
			UploadHint: "Upload a CSV file to see analytics and charts",
		},
		NumberFormat:   NumberFormat{Tag: language.AmericanEnglish, MaxFractionDigits: 2, MoneyDigits: 2},
		Currency:       currency.USD,
		CurrencySymbol: "$",
	}
}

func Thai() Config {
	return Config{
		Code: "th",
		Labels: Labels{
			Title:        "แดชบอร์ดการอนุมัติสินเชื่อ",
			Subtitle:     "วิเคราะห์และคาดการณ์การอนุมัติสินเชื่อด้วยโมเดลแมชชีนเลิร์นนิง",
			TabSingle:    "ใบสมัครเดี่ยว",
			TabBatch:     "การประมวลผลแบทช์",
			TabAnalytics: "การวิเคราะห์",

			Approved: "อนุมัติ",
			Declined: "ปฏิเสธ",
			Ownership: map[string]string{
				"own":      "เจ้าของบ้าน",
				"rent":     "เช่า",
				"mortgage": "จำนอง",
				"other":    "อื่นๆ",
			},
			Defaults: map[string]string{
				"yes": "มี",
				"no":  "ไม่มี",
			},

			ApprovalRateTitle:    "อัตราการอนุมัติ",
			OwnershipChartTitle:  "ผลกระทบจากสถานะที่อยู่",
			DefaultsChartTitle:   "ผลกระทบจากประวัติผิดนัด",
			CreditScoreTitle:     "การกระจายตัวของคะแนนเครดิต",
			IncomeChartTitle:     "การกระจายตัวของรายได้",
			LoanAmountChartTitle: "การกระจายตัวของวงเงินกู้",
			AgeChartTitle:        "การกระจายตัวของอายุ",

			Columns: map[string]string{
				"age":                  "อายุ",
				"income":               "รายได้",
				"loan_amount":          "วงเงินกู้",
				"credit_score":         "คะแนนเครดิต",
				"home_ownership":       "สถานะที่อยู่",
				"previous_defaults":    "ประวัติผิดนัด",
				"result":               "ผลลัพธ์",
				"approval_probability": "ความน่าจะเป็น",
			},
			Fields: map[string]string{
				"income":            "รายได้ต่อปี (฿)",
				"loan_amount":       "วงเงินกู้ (฿)",
				"loan_int_rate":     "อัตราดอกเบี้ย",
				"age":               "อายุ",
				"previous_defaults": "ประวัติการผิดนัดชำระ",
				"home_ownership":    "สถานะที่อยู่อาศัย",
			},
			ResultsTitle:      "ผลการคาดการณ์",
			TotalApplications: "จำนวนใบสมัครทั้งหมด",
			Submit:            "คาดการณ์การอนุมัติ",
			Processing:        "กำลังประมวลผล...",
			SelectFile:        "เลือกไฟล์ CSV",
			DropHint:          "ลากและวางไฟล์ CSV ของคุณ",
			SelectedFile:      "ไฟล์ที่เลือก:",
			ExportCSV:         "ส่งออก CSV",
			ResetAnalysis:     "ล้างการวิเคราะห์",
			Previous:          "ก่อนหน้า",
			Next:              "ถัดไป",

			NoResults:  "ไม่มีผลลัพธ์ อัพโหลดไฟล์ CSV หรือส่งแบบฟอร์ม",
			NoAnalysis: "ไม่มีข้อมูลการวิเคราะห์",
			UploadHint: "อัพโหลดไฟล์ CSV เพื่อดูการวิเคราะห์และแผนภาพ",
		},
		NumberFormat:   NumberFormat{Tag: language.Thai, MaxFractionDigits: 2, MoneyDigits: 0},
		Currency:       currency.THB,
		CurrencySymbol: "฿",
	}
}
