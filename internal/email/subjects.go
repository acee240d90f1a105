package email

const (
	subjectWelcome          = "Şehir Sorun Takip'e hoş geldiniz"
	subjectStatusChangedFmt = "Bildiriminizin durumu güncellendi: %s"
)
