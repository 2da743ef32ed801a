package qris_test

// Payloads below follow the layout of real DANA / ShopeePay static QRIS
// codes. Checksums were computed independently of this package.
const (
	// static, DANA, Surabaya
	staticPayload = "00020101021126580011ID.DANA.WWW0118936009153022591481021002259148100303UMI" +
		"51440014ID.CO.QRIS.WWW0215ID10200176114730303UMI5204482953033605802ID5904DANA" +
		"6013KOTA SURABAYA6105601136304C60D"

	// static, A01 terminal label, padded mixed-case merchant name
	a01Payload = "00020101021126620016ID.CO.SHOPEE.WWW011893600918002160052302092160052300303UME" +
		"51440014ID.CO.QRIS.WWW0215ID20210812467340303UME5204581253033605802ID" +
		"5915 Kopi Kenangan 6011Jakarta Sel61051219062070703A016304A137"

	// static, merchant account info without the 01 (NNS) sub-field
	noNNSPayload = "00020101021126360011ID.DANA.WWW021002259148100303UMI" +
		"51440014ID.CO.QRIS.WWW0215ID10200176114730303UMI5204482953033605802ID5904DANA" +
		"6013KOTA SURABAYA6105601136304FC69"

	// dynamic, already priced at 2500
	dynamicPayload = "00020101021226580011ID.DANA.WWW0118936009153022591481021002259148100303UMI" +
		"51440014ID.CO.QRIS.WWW0215ID10200176114730303UMI520448295303360540425005802ID" +
		"5904DANA6013KOTA SURABAYA6105601136304C978"

	// valid checksum, no 5802ID country field
	noCountryPayload = "00020101021126580011ID.DANA.WWW0118936009153022591481021002259148100303UMI" +
		"5904DANA6304FB47"
)

const (
	payment10000 = "00020101021226580011ID.DANA.WWW0118936009153022591481021002259148100303UMI" +
		"51440014ID.CO.QRIS.WWW0215ID10200176114730303UMI5204482953033605405100005802ID" +
		"5904DANA6013KOTA SURABAYA61056011363047524"

	payment10000Pct30 = "00020101021226580011ID.DANA.WWW0118936009153022591481021002259148100303UMI" +
		"51440014ID.CO.QRIS.WWW0215ID10200176114730303UMI5204482953033605405130005802ID" +
		"5904DANA6013KOTA SURABAYA61056011363045A26"

	payment10000Flat500 = "00020101021226580011ID.DANA.WWW0118936009153022591481021002259148100303UMI" +
		"51440014ID.CO.QRIS.WWW0215ID10200176114730303UMI5204482953033605405105005802ID" +
		"5904DANA6013KOTA SURABAYA6105601136304BF2D"

	payment100Pct2_5 = "00020101021226580011ID.DANA.WWW0118936009153022591481021002259148100303UMI" +
		"51440014ID.CO.QRIS.WWW0215ID10200176114730303UMI52044829530336054031035802ID" +
		"5904DANA6013KOTA SURABAYA6105601136304F589"

	payment10001Pct0_5 = "00020101021226580011ID.DANA.WWW0118936009153022591481021002259148100303UMI" +
		"51440014ID.CO.QRIS.WWW0215ID10200176114730303UMI5204482953033605405100515802ID" +
		"5904DANA6013KOTA SURABAYA61056011363048A58"

	payment10000Flat2_5 = "00020101021226580011ID.DANA.WWW0118936009153022591481021002259148100303UMI" +
		"51440014ID.CO.QRIS.WWW0215ID10200176114730303UMI520448295303360540710002.55802ID" +
		"5904DANA6013KOTA SURABAYA610560113630413A3"

	dynamicRepriced7500 = "00020101021226580011ID.DANA.WWW0118936009153022591481021002259148100303UMI" +
		"51440014ID.CO.QRIS.WWW0215ID10200176114730303UMI520448295303360540475005802ID" +
		"5904DANA6013KOTA SURABAYA6105601136304B87E"
)
