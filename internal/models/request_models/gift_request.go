package request_models

type LoadOrCreateGiftRequest struct {
	Token string `json:"token" binding:"required"`
}

type SaveCardFaceRequest struct {
	Theme    string         `json:"theme"`
	Pattern  string         `json:"pattern"`
	Stickers []StickerInput `json:"stickers"`
}

type StickerInput struct {
	ID       string  `json:"id" binding:"required"`
	Emoji    string  `json:"emoji" binding:"required"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

type SetAmountRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type AddMemoryRequest struct {
	ImageURL string `json:"imageUrl"`
	Caption  string `json:"caption" binding:"required"`
	Date     string `json:"date" binding:"required"`
}

type SetMessageVideoRequest struct {
	VideoURL string `json:"videoUrl" binding:"required,url"`
}
