package merchant_test

const (
	staticPayload = "00020101021126580011ID.DANA.WWW0118936009153022591481021002259148100303UMI" +
		"51440014ID.CO.QRIS.WWW0215ID10200176114730303UMI5204482953033605802ID5904DANA" +
		"6013KOTA SURABAYA6105601136304C60D"

	a01Payload = "00020101021126620016ID.CO.SHOPEE.WWW011893600918002160052302092160052300303UME" +
		"51440014ID.CO.QRIS.WWW0215ID20210812467340303UME5204581253033605802ID" +
		"5915 Kopi Kenangan 6011Jakarta Sel61051219062070703A016304A137"

	payment10000 = "00020101021226580011ID.DANA.WWW0118936009153022591481021002259148100303UMI" +
		"51440014ID.CO.QRIS.WWW0215ID10200176114730303UMI5204482953033605405100005802ID" +
		"5904DANA6013KOTA SURABAYA61056011363047524"

	payment10000Pct30 = "00020101021226580011ID.DANA.WWW0118936009153022591481021002259148100303UMI" +
		"51440014ID.CO.QRIS.WWW0215ID10200176114730303UMI5204482953033605405130005802ID" +
		"5904DANA6013KOTA SURABAYA61056011363045A26"
)
