package models

// PolicyResponse 클라이언트 응답용 정책 정보
type PolicyResponse struct {
	ID         string      `json:"id"`
	PolicyName string      `json:"policy_name"`
	PolicyData interface{} `json:"policy_data"` // JSON 파싱된 데이터
}
